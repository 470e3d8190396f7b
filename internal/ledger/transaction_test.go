package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyapp/tally/internal/ledger"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "Positive", input: "3000.00", want: 300000},
		{name: "Negative", input: "-42.50", want: -4250},
		{name: "NoFraction", input: "7", want: 700},
		{name: "OneFractionDigit", input: "1.5", want: 150},
		{name: "CommaDecimal", input: "-42,50", want: -4250},
		{name: "TrailingZeros", input: "1.200", want: 120},
		{name: "Whitespace", input: " 10.00 ", want: 1000},
		{name: "Empty", input: "", wantErr: true},
		{name: "Zero", input: "0", wantErr: true},
		{name: "ZeroWithFraction", input: "0.00", wantErr: true},
		{name: "ThreeFractionDigits", input: "1.999", wantErr: true},
		{name: "Garbage", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ParseAmount(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "-42.50", ledger.FormatAmount(-4250))
	assert.Equal(t, "3000.00", ledger.FormatAmount(300000))
	assert.Equal(t, "0.05", ledger.FormatAmount(5))
	assert.Equal(t, "0.00", ledger.FormatAmount(0))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{-4250, -1, 1, 99, 100, 300000} {
		got, err := ledger.ParseAmount(ledger.FormatAmount(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}

func TestImportSource(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "import:"+id.String(), ledger.ImportSource(id))
}
