package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tallyapp/tally/internal/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.CreateParams
		setupMock func(m *ledger.MockStore)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.CreateParams{
				Date:        time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC),
				Amount:      -4250,
				Category:    "Groceries",
				Description: "weekly shop",
			},
			setupMock: func(m *ledger.MockStore) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						// Time-of-day is stripped before the store sees it.
						assert.Equal(t, date(2024, 1, 5), tx.Date)
						assert.Equal(t, ledger.SourceManual, tx.Source)

						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:   "StoreError",
			params: ledger.CreateParams{Date: date(2024, 1, 5), Amount: 500},
			setupMock: func(m *ledger.MockStore) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := ledger.NewMockStore(ctrl)
			tt.setupMock(store)

			svc := ledger.NewService(store)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, ledger.SourceManual, got.Source)
		})
	}
}

func TestService_ImportBatch(t *testing.T) {
	batchID := uuid.New()

	params := []ledger.CreateParams{
		{Date: date(2024, 1, 5), Amount: -4250, Category: "Groceries"},
		{Date: date(2024, 1, 10), Amount: 300000, Category: "Salary"},
	}

	t.Run("CreatesAllWithBatchTag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := ledger.NewMockStore(ctrl)
		btx := ledger.NewMockBatchTx(ctrl)

		store.EXPECT().
			BeginBatch(gomock.Any(), date(2024, 1, 5), date(2024, 1, 10)).
			Return(btx, nil)
		btx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		btx.EXPECT().
			CreateTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, txs []*ledger.Transaction) error {
				require.Len(t, txs, 2)
				for _, tx := range txs {
					assert.Equal(t, ledger.ImportSource(batchID), tx.Source)
					tx.ID = uuid.New()
				}
				return nil
			})
		btx.EXPECT().Commit().Return(nil)
		btx.EXPECT().Rollback().Return(nil)

		svc := ledger.NewService(store)
		result, err := svc.ImportBatch(context.Background(), batchID, params)
		require.NoError(t, err)
		assert.Len(t, result.Created, 2)
		assert.Empty(t, result.Skipped)
	})

	t.Run("SkipsContentDuplicates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := ledger.NewMockStore(ctrl)
		btx := ledger.NewMockBatchTx(ctrl)

		existing := &ledger.Transaction{
			ID:       uuid.New(),
			Date:     date(2024, 1, 5),
			Amount:   -4250,
			Category: "Groceries",
			Source:   "import:" + uuid.NewString(),
		}

		store.EXPECT().BeginBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(btx, nil)
		btx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*ledger.Transaction{existing}, nil)
		btx.EXPECT().
			CreateTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, txs []*ledger.Transaction) error {
				require.Len(t, txs, 1)
				assert.Equal(t, int64(300000), txs[0].Amount)
				return nil
			})
		btx.EXPECT().Commit().Return(nil)
		btx.EXPECT().Rollback().Return(nil)

		svc := ledger.NewService(store)
		result, err := svc.ImportBatch(context.Background(), batchID, params)
		require.NoError(t, err)
		assert.Len(t, result.Created, 1)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, 0, result.Skipped[0].Index)
		assert.Equal(t, existing.ID, result.Skipped[0].Existing.ID)
	})

	t.Run("EmptyBatchTouchesNothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := ledger.NewMockStore(ctrl)

		svc := ledger.NewService(store)
		result, err := svc.ImportBatch(context.Background(), batchID, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Created)
		assert.Empty(t, result.Skipped)
	})

	t.Run("CreateErrorRollsBack", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := ledger.NewMockStore(ctrl)
		btx := ledger.NewMockBatchTx(ctrl)

		store.EXPECT().BeginBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(btx, nil)
		btx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		btx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		btx.EXPECT().Rollback().Return(nil)

		svc := ledger.NewService(store)
		_, err := svc.ImportBatch(context.Background(), batchID, params)
		assert.Error(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	store := ledger.NewMockStore(ctrl)
	store.EXPECT().DeleteTransaction(gomock.Any(), id).Return(ledger.ErrNotFound)

	svc := ledger.NewService(store)
	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
