package sale

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/numerator"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/audit"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/stock"
)

// In-memory fakes with transaction semantics: memTx serializes
// transactions (as row locks do) and rewinds every store on error.

type restorable interface {
	snapshot() func()
}

type memTx struct {
	mu     sync.Mutex
	stores []restorable
}

func (m *memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type memStock struct {
	qty       map[id.ID]int64
	movements []entity.StockMovement
}

func newMemStock() *memStock {
	return &memStock{qty: make(map[id.ID]int64)}
}

func (m *memStock) snapshot() func() {
	qty := make(map[id.ID]int64, len(m.qty))
	for k, v := range m.qty {
		qty[k] = v
	}
	movements := append([]entity.StockMovement(nil), m.movements...)
	return func() {
		m.qty = qty
		m.movements = movements
	}
}

func (m *memStock) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error) {
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

func (m *memStock) AppendMovement(ctx context.Context, movement entity.StockMovement) error {
	m.movements = append(m.movements, movement)
	return nil
}

func (m *memStock) Quantity(ctx context.Context, productID id.ID) (int64, error) {
	qty, ok := m.qty[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return qty, nil
}

func (m *memStock) MovementsByProduct(ctx context.Context, productID id.ID, limit, offset int) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].ProductID == productID {
			out = append(out, m.movements[i])
		}
	}
	return out, nil
}

type memCustomers struct {
	rows map[id.ID]*customer.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{rows: make(map[id.ID]*customer.Customer)}
}

func (m *memCustomers) snapshot() func() {
	rows := make(map[id.ID]*customer.Customer, len(m.rows))
	for k, v := range m.rows {
		cp := *v
		rows[k] = &cp
	}
	return func() { m.rows = rows }
}

func (m *memCustomers) Create(ctx context.Context, c *customer.Customer) error {
	m.rows[c.ID] = c
	return nil
}

func (m *memCustomers) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := m.rows[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return c, nil
}

func (m *memCustomers) Update(ctx context.Context, c *customer.Customer) error {
	m.rows[c.ID] = c
	return nil
}

func (m *memCustomers) List(ctx context.Context) ([]*customer.Customer, error) {
	return nil, nil
}

func (m *memCustomers) IncrementTotalPurchases(ctx context.Context, customerID id.ID, amount types.Money) error {
	c, ok := m.rows[customerID]
	if !ok {
		return apperror.NewNotFound("customer", customerID.String())
	}
	c.TotalPurchases = c.TotalPurchases.Add(amount)
	return nil
}

type memRepo struct {
	docs  map[id.ID]*Sale
	items map[id.ID][]Item
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[id.ID]*Sale), items: make(map[id.ID][]Item)}
}

func (m *memRepo) snapshot() func() {
	docs := make(map[id.ID]*Sale, len(m.docs))
	for k, v := range m.docs {
		cp := *v
		docs[k] = &cp
	}
	items := make(map[id.ID][]Item, len(m.items))
	for k, v := range m.items {
		items[k] = append([]Item(nil), v...)
	}
	return func() {
		m.docs = docs
		m.items = items
	}
}

func (m *memRepo) Create(ctx context.Context, s *Sale) error {
	cp := *s
	m.docs[s.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	doc, ok := m.docs[saleID]
	if !ok {
		return nil, apperror.NewNotFound(EntityType, saleID.String())
	}
	cp := *doc
	return &cp, nil
}

func (m *memRepo) SaveItems(ctx context.Context, saleID id.ID, items []Item) error {
	m.items[saleID] = append([]Item(nil), items...)
	return nil
}

func (m *memRepo) GetItems(ctx context.Context, saleID id.ID) ([]Item, error) {
	return append([]Item(nil), m.items[saleID]...), nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	var out []*Sale
	for _, doc := range m.docs {
		cp := *doc
		out = append(out, &cp)
	}
	return out, nil
}

// memNumerator hands out sequential numbers and rewinds with the
// transaction, like the strict database strategy.
type memNumerator struct {
	current int64
}

func (m *memNumerator) snapshot() func() {
	saved := m.current
	return func() { m.current = saved }
}

func (m *memNumerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	m.current++
	return fmt.Sprintf("%s-%05d", cfg.Prefix, m.current), nil
}

func (m *memNumerator) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	m.current = value - 1
	return nil
}

type fixture struct {
	svc       *Service
	repo      *memRepo
	customers *memCustomers
	stockRp   *memStock

	buyer *customer.Customer
	bag   id.ID
	scarf id.ID
}

func newFixture() *fixture {
	repo := newMemRepo()
	customers := newMemCustomers()
	stockRp := newMemStock()
	txm := &memTx{stores: []restorable{repo, customers, stockRp}}

	svc := NewService(
		repo,
		customers,
		stock.NewLedger(stockRp),
		&numerator.MockGenerator{},
		txm,
		audit.Nop{},
	)

	f := &fixture{svc: svc, repo: repo, customers: customers, stockRp: stockRp}

	f.buyer = customer.New("Ada")
	customers.rows[f.buyer.ID] = f.buyer

	f.bag = id.New()
	f.scarf = id.New()
	stockRp.qty[f.bag] = 5
	stockRp.qty[f.scarf] = 3
	return f
}

func (f *fixture) qty(t *testing.T, productID id.ID) int64 {
	t.Helper()
	qty, err := f.stockRp.Quantity(context.Background(), productID)
	require.NoError(t, err)
	return qty
}

func TestCreate_DeductsStockAndAccumulatesCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := New(&f.buyer.ID, PaymentTransfer, ChannelInstagram)
	doc.AddItem(f.bag, 2, types.MustMoney("12000"))
	doc.AddItem(f.scarf, 1, types.MustMoney("4000"))
	doc.SetDiscount(types.MustMoney("1000"))

	require.NoError(t, f.svc.Create(ctx, doc))

	assert.Equal(t, "MOCK-2026-00001", doc.Number)
	assert.True(t, doc.Subtotal.Equal(types.MustMoney("28000")))
	assert.True(t, doc.Total.Equal(types.MustMoney("27000")))

	assert.Equal(t, int64(3), f.qty(t, f.bag))
	assert.Equal(t, int64(2), f.qty(t, f.scarf))

	buyer, err := f.customers.GetByID(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.True(t, buyer.TotalPurchases.Equal(types.MustMoney("27000")))

	movements, err := f.stockRp.MovementsByProduct(ctx, f.bag, 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, EntityType, movements[0].RecorderType)
	assert.Equal(t, int64(-2), movements[0].SignedQuantity())

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
}

// A short line anywhere voids everything: no sale row, no stock
// deduction on any line, no customer total change.
func TestCreate_InsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := New(&f.buyer.ID, PaymentCash, ChannelWalkIn)
	doc.AddItem(f.bag, 2, types.MustMoney("12000"))
	doc.AddItem(f.scarf, 4, types.MustMoney("4000")) // only 3 in stock

	err := f.svc.Create(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(5), f.qty(t, f.bag))
	assert.Equal(t, int64(3), f.qty(t, f.scarf))

	buyer, _ := f.customers.GetByID(ctx, f.buyer.ID)
	assert.True(t, buyer.TotalPurchases.IsZero())

	_, err = f.svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_WalkInWithoutCustomer(t *testing.T) {
	f := newFixture()

	doc := New(nil, PaymentCash, ChannelWalkIn)
	doc.AddItem(f.bag, 1, types.MustMoney("12000"))

	require.NoError(t, f.svc.Create(context.Background(), doc))
	assert.Equal(t, int64(4), f.qty(t, f.bag))
}

func TestCreate_UnknownCustomerRejected(t *testing.T) {
	f := newFixture()
	ghost := id.New()

	doc := New(&ghost, PaymentCash, ChannelWalkIn)
	doc.AddItem(f.bag, 1, types.MustMoney("12000"))

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(5), f.qty(t, f.bag))
}

func TestCreate_NegativeTotalRejected(t *testing.T) {
	f := newFixture()

	doc := New(nil, PaymentCash, ChannelWalkIn)
	doc.AddItem(f.bag, 1, types.MustMoney("12000"))
	doc.SetDiscount(types.MustMoney("15000"))

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
	assert.Equal(t, int64(5), f.qty(t, f.bag))
}

func TestCreate_NonPositiveQuantityRejected(t *testing.T) {
	f := newFixture()

	doc := New(nil, PaymentCash, ChannelWalkIn)
	doc.Items = append(doc.Items, Item{
		LineID:    id.New(),
		LineNo:    1,
		ProductID: f.bag,
		Quantity:  0,
		UnitPrice: types.MustMoney("12000"),
	})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

// A failed sale must not burn a number: the draw happens inside the
// transaction and rewinds with it, keeping the sequence gapless.
func TestCreate_FailedSaleLeavesNoNumberGap(t *testing.T) {
	repo := newMemRepo()
	customers := newMemCustomers()
	stockRp := newMemStock()
	gen := &memNumerator{}
	txm := &memTx{stores: []restorable{repo, customers, stockRp, gen}}

	svc := NewService(repo, customers, stock.NewLedger(stockRp), gen, txm, audit.Nop{})

	bag := id.New()
	stockRp.qty[bag] = 1

	short := New(nil, PaymentCash, ChannelWalkIn)
	short.AddItem(bag, 2, types.MustMoney("12000")) // only 1 in stock
	err := svc.Create(context.Background(), short)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	doc := New(nil, PaymentCash, ChannelWalkIn)
	doc.AddItem(bag, 1, types.MustMoney("12000"))
	require.NoError(t, svc.Create(context.Background(), doc))
	assert.Equal(t, "SALE-00001", doc.Number)
}

// Two sales racing for the last unit: exactly one succeeds, final
// stock is zero, the loser leaves no trace.
func TestCreate_ConcurrentLastUnit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.stockRp.qty[f.bag] = 1

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := New(nil, PaymentCash, ChannelWalkIn)
			doc.AddItem(f.bag, 1, types.MustMoney("12000"))
			errs[i] = f.svc.Create(ctx, doc)
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
	assert.Equal(t, int64(0), f.qty(t, f.bag))

	sales, err := f.repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
