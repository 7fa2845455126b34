package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
)

// memRepo mimics the storage guarantee: the guard and the write are one
// atomic step with respect to other adjustments on the same product.
type memRepo struct {
	mu        sync.Mutex
	qty       map[id.ID]int64
	movements []entity.StockMovement
}

func newMemRepo() *memRepo {
	return &memRepo{qty: make(map[id.ID]int64)}
}

func (m *memRepo) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.qty[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if current+delta < 0 {
		return 0, apperror.NewInsufficientStock(productID.String(), -delta, current)
	}
	m.qty[productID] = current + delta
	return current + delta, nil
}

func (m *memRepo) AppendMovement(ctx context.Context, movement entity.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

func (m *memRepo) Quantity(ctx context.Context, productID id.ID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qty, ok := m.qty[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return qty, nil
}

func (m *memRepo) MovementsByProduct(ctx context.Context, productID id.ID, limit, offset int) ([]entity.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.StockMovement
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].ProductID == productID {
			out = append(out, m.movements[i])
		}
	}
	return out, nil
}

func testRecorder() Recorder {
	return Recorder{ID: id.New(), Type: "Sale"}
}

func TestAdjust_AppliesDeltaAndRecordsMovement(t *testing.T) {
	repo := newMemRepo()
	productID := id.New()
	repo.qty[productID] = 10

	ledger := NewLedger(repo)
	ctx := context.Background()

	require.NoError(t, ledger.Adjust(ctx, productID, 5, testRecorder()))
	require.NoError(t, ledger.Adjust(ctx, productID, -3, testRecorder()))

	qty, err := ledger.Availability(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), qty)

	movements, err := ledger.Movements(ctx, productID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	// Newest first: the -3 expense, then the +5 receipt.
	assert.Equal(t, entity.DirectionOut, movements[0].Direction)
	assert.Equal(t, int64(3), movements[0].Quantity)
	assert.Equal(t, int64(-3), movements[0].SignedQuantity())
	assert.Equal(t, entity.DirectionIn, movements[1].Direction)
	assert.Equal(t, int64(5), movements[1].Quantity)
}

func TestAdjust_RejectsNegativeResult(t *testing.T) {
	repo := newMemRepo()
	productID := id.New()
	repo.qty[productID] = 2

	ledger := NewLedger(repo)
	err := ledger.Adjust(context.Background(), productID, -3, testRecorder())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(3), appErr.Details["requested"])
	assert.Equal(t, int64(2), appErr.Details["available"])

	// Quantity unchanged, no movement recorded.
	qty, _ := ledger.Availability(context.Background(), productID)
	assert.Equal(t, int64(2), qty)
	assert.Empty(t, repo.movements)
}

func TestAdjust_UnknownProduct(t *testing.T) {
	ledger := NewLedger(newMemRepo())
	err := ledger.Adjust(context.Background(), id.New(), 1, testRecorder())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	repo := newMemRepo()
	productID := id.New()
	repo.qty[productID] = 1

	err := NewLedger(repo).Adjust(context.Background(), productID, 0, testRecorder())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

// Two writers racing for the last unit: exactly one wins, final stock
// is zero, never negative.
func TestAdjust_ConcurrentLastUnit(t *testing.T) {
	repo := newMemRepo()
	productID := id.New()
	repo.qty[productID] = 1

	ledger := NewLedger(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.Adjust(ctx, productID, -1, testRecorder())
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	qty, err := ledger.Availability(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

// Hammer the guard from many goroutines; the counter must never dip
// below zero and must balance receipts minus successful expenses.
func TestAdjust_ConcurrentMixedTraffic(t *testing.T) {
	repo := newMemRepo()
	productID := id.New()
	repo.qty[productID] = 50

	ledger := NewLedger(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	var failed int64
	var mu sync.Mutex

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Adjust(ctx, productID, -1, testRecorder()); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	qty, err := ledger.Availability(ctx, productID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, qty, int64(0))
	assert.Equal(t, int64(50), failed, "50 of 100 decrements must fail")
	assert.Equal(t, int64(0), qty)
}
