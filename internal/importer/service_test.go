package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tallyapp/tally/internal/category"
	"github.com/tallyapp/tally/internal/importer"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/validate"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newValidator() *validate.Validator {
	taxonomy := category.NewTaxonomy([]category.Category{
		{Name: "Groceries", Kind: category.KindExpense, Aliases: []string{"food"}},
		{Name: "Salary", Kind: category.KindIncome},
	})

	return validate.New(category.NewResolver(taxonomy), 500)
}

// expectBatch wires a store mock that accepts one batch, optionally
// reporting the given transactions as pre-existing duplicates.
func expectBatch(ctrl *gomock.Controller, store *ledger.MockStore, existing []*ledger.Transaction, created *[]*ledger.Transaction) {
	btx := ledger.NewMockBatchTx(ctrl)

	store.EXPECT().BeginBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(btx, nil)
	btx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(existing, nil)
	btx.EXPECT().
		CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []*ledger.Transaction) error {
			for _, tx := range txs {
				tx.ID = uuid.New()
			}

			if created != nil {
				*created = txs
			}

			return nil
		}).
		AnyTimes()
	btx.EXPECT().Commit().Return(nil)
	btx.EXPECT().Rollback().Return(nil)
}

func TestService_Import_PartialSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ledger.NewMockStore(ctrl)

	var created []*ledger.Transaction

	expectBatch(ctrl, store, nil, &created)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

	csv := `date,amount,category,description
2024-01-05,-42.50,Groceries,
2024-01-10,3000.00,Salary,
not-a-date,10.00,Food,
`

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowsTotal)
	assert.Equal(t, 2, report.RowsAccepted)
	require.Len(t, report.Rejected, 1)

	// Row numbers are 1-based file rows, header included: the bad row
	// is the third data row, so row 4 in the file.
	assert.Equal(t, 4, report.Rejected[0].Row)
	assert.Equal(t, "InvalidDate", report.Rejected[0].Kind)
	assert.NotEmpty(t, report.Rejected[0].Reason)

	require.Len(t, created, 2)
	assert.Equal(t, date(2024, 1, 5), created[0].Date)
	assert.Equal(t, int64(-4250), created[0].Amount)
	assert.Equal(t, "Groceries", created[0].Category)
	assert.Equal(t, date(2024, 1, 10), created[1].Date)
	assert.Equal(t, int64(300000), created[1].Amount)
	assert.Equal(t, ledger.ImportSource(report.BatchID), created[0].Source)
}

func TestService_Import_AliasAndFallbackCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ledger.NewMockStore(ctrl)

	var created []*ledger.Transaction

	expectBatch(ctrl, store, nil, &created)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

	csv := `date,amount,category
2024-01-05,-10.00,food
2024-01-06,-5.00,Mystery
`

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowsAccepted)

	require.Len(t, created, 2)
	assert.Equal(t, "Groceries", created[0].Category)
	assert.Equal(t, category.Uncategorized, created[1].Category)
}

func TestService_Import_DuplicatesSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ledger.NewMockStore(ctrl)

	existing := &ledger.Transaction{
		ID:       uuid.New(),
		Date:     date(2024, 1, 5),
		Amount:   -4250,
		Category: "Groceries",
	}

	var created []*ledger.Transaction

	expectBatch(ctrl, store, []*ledger.Transaction{existing}, &created)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

	csv := `date,amount,category
2024-01-05,-42.50,Groceries
2024-01-10,3000.00,Salary
`

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.RowsTotal)
	assert.Equal(t, 1, report.RowsAccepted)
	assert.Empty(t, report.Rejected)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, 2, report.Duplicates[0].Row)
	assert.Equal(t, "DuplicateImport", report.Duplicates[0].Kind)
	assert.Contains(t, report.Duplicates[0].Reason, existing.ID.String())
}

func TestService_Import_BatchTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No store expectations: nothing may be persisted.
	store := ledger.NewMockStore(ctrl)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 2)

	csv := `date,amount
2024-01-01,1.00
2024-01-02,2.00
2024-01-03,3.00
`

	_, err := svc.Import(context.Background(), strings.NewReader(csv))
	assert.ErrorIs(t, err, importer.ErrBatchTooLarge)
}

func TestService_Import_StructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "MissingAmountColumn", csv: "date,description\n2024-01-01,hello\n"},
		{name: "MissingDateColumn", csv: "amount,category\n1.00,Groceries\n"},
		{name: "EmptyFile", csv: ""},
		{name: "NoHeaderAtAll", csv: "2024-01-01,1.00\n2024-01-02,2.00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := ledger.NewMockStore(ctrl)

			svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

			_, err := svc.Import(context.Background(), strings.NewReader(tt.csv))
			require.Error(t, err)

			var structural *importer.StructuralError
			assert.ErrorAs(t, err, &structural)
		})
	}
}

func TestService_Import_SemicolonDelimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ledger.NewMockStore(ctrl)

	var created []*ledger.Transaction

	expectBatch(ctrl, store, nil, &created)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

	csv := "date;amount;category\n2024-01-05;-42,50;Groceries\n"

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowsAccepted)
	require.Len(t, created, 1)
	assert.Equal(t, int64(-4250), created[0].Amount)
}

func TestService_Import_ExtraColumnsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ledger.NewMockStore(ctrl)

	var created []*ledger.Transaction

	expectBatch(ctrl, store, nil, &created)

	svc := importer.NewService(newValidator(), ledger.NewService(store), 1000)

	csv := `account,date,amount,notes
main,2024-01-05,-1.00,ignored
`

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowsAccepted)
	require.Len(t, created, 1)
	assert.Equal(t, category.Uncategorized, created[0].Category)
}
