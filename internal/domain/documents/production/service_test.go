package production

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/numerator"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/audit"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/stock"
)

// In-memory fakes with transaction rollback: memTx snapshots every
// store before the function runs and rewinds them all on error.

type restorable interface {
	snapshot() func()
}

type memTx struct {
	stores []restorable
}

func (m *memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
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

type memProducts struct {
	rows map[id.ID]*product.Product
}

func newMemProducts() *memProducts {
	return &memProducts{rows: make(map[id.ID]*product.Product)}
}

func (m *memProducts) snapshot() func() {
	rows := make(map[id.ID]*product.Product, len(m.rows))
	for k, v := range m.rows {
		cp := *v
		rows[k] = &cp
	}
	return func() { m.rows = rows }
}

func (m *memProducts) Create(ctx context.Context, p *product.Product) error {
	m.rows[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := m.rows[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (m *memProducts) Update(ctx context.Context, p *product.Product) error {
	m.rows[p.ID] = p
	return nil
}

func (m *memProducts) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	return nil, nil
}

func (m *memProducts) UpdateCostBasis(ctx context.Context, productID id.ID, costUSD, costNGN types.Money) error {
	p, ok := m.rows[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.CostPriceUSD = costUSD
	p.CostPriceNGN = costNGN
	return nil
}

func (m *memProducts) SetSellingPrice(ctx context.Context, productID id.ID, price types.Money, overridden bool) error {
	p, ok := m.rows[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.SellingPrice = price
	p.PriceOverridden = overridden
	return nil
}

func (m *memProducts) LowStock(ctx context.Context) ([]*product.Product, error) {
	return nil, nil
}

type memRepo struct {
	docs      map[id.ID]*Production
	materials map[id.ID][]Material
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[id.ID]*Production), materials: make(map[id.ID][]Material)}
}

func (m *memRepo) snapshot() func() {
	docs := make(map[id.ID]*Production, len(m.docs))
	for k, v := range m.docs {
		cp := *v
		docs[k] = &cp
	}
	materials := make(map[id.ID][]Material, len(m.materials))
	for k, v := range m.materials {
		materials[k] = append([]Material(nil), v...)
	}
	return func() {
		m.docs = docs
		m.materials = materials
	}
}

func (m *memRepo) Create(ctx context.Context, p *Production) error {
	cp := *p
	m.docs[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, productionID id.ID) (*Production, error) {
	doc, ok := m.docs[productionID]
	if !ok {
		return nil, apperror.NewNotFound(EntityType, productionID.String())
	}
	cp := *doc
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, p *Production) error {
	if _, ok := m.docs[p.ID]; !ok {
		return apperror.NewNotFound(EntityType, p.ID.String())
	}
	cp := *p
	m.docs[p.ID] = &cp
	return nil
}

func (m *memRepo) SaveMaterials(ctx context.Context, productionID id.ID, materials []Material) error {
	m.materials[productionID] = append([]Material(nil), materials...)
	return nil
}

func (m *memRepo) GetMaterials(ctx context.Context, productionID id.ID) ([]Material, error) {
	return append([]Material(nil), m.materials[productionID]...), nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]*Production, error) {
	var out []*Production
	for _, doc := range m.docs {
		cp := *doc
		out = append(out, &cp)
	}
	return out, nil
}

type staticMargins struct {
	margin types.Money
	err    error
}

func (s *staticMargins) ResolveMargin(ctx context.Context, categoryID string) (types.Money, error) {
	if s.err != nil {
		return types.Zero(), s.err
	}
	return s.margin, nil
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	products *memProducts
	stockRp  *memStock
	margins  *staticMargins

	target *product.Product
	fabric *product.Product
	thread *product.Product
}

func newFixture() *fixture {
	repo := newMemRepo()
	products := newMemProducts()
	stockRp := newMemStock()
	margins := &staticMargins{margin: types.MustMoney("50")}
	txm := &memTx{stores: []restorable{repo, products, stockRp}}

	svc := NewService(
		repo,
		products,
		stock.NewLedger(stockRp),
		margins,
		&numerator.MockGenerator{},
		txm,
		audit.Nop{},
	)

	f := &fixture{svc: svc, repo: repo, products: products, stockRp: stockRp, margins: margins}
	f.target = f.seed("bag", product.KindFinishedGood, 0)
	f.fabric = f.seed("fabric", product.KindRawMaterial, 10)
	f.thread = f.seed("thread", product.KindRawMaterial, 10)
	return f
}

func (f *fixture) seed(name string, kind product.Kind, qty int64) *product.Product {
	p := product.New(name, name, kind, id.New())
	f.products.rows[p.ID] = p
	f.stockRp.qty[p.ID] = qty
	return p
}

func (f *fixture) qty(t *testing.T, productID id.ID) int64 {
	t.Helper()
	qty, err := f.stockRp.Quantity(context.Background(), productID)
	require.NoError(t, err)
	return qty
}

// newOrder consumes 2 fabric at 3000 and 1 thread at 500 with labor
// 1500: material cost 6500, production cost 8000, recommended 12000 at
// the default 50 percent margin.
func (f *fixture) newOrder() *Production {
	p := New(f.target.ID, id.New())
	p.AddMaterial(f.fabric.ID, 2, types.MustMoney("3000"))
	p.AddMaterial(f.thread.ID, 1, types.MustMoney("500"))
	p.SetLaborCost(types.MustMoney("1500"))
	return p
}

func TestCreate_ConsumesMaterialsAndPrices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "MOCK-2026-00001", p.Number)
	assert.True(t, p.TotalMaterialCost.Equal(types.MustMoney("6500")))
	assert.True(t, p.TotalProductionCost.Equal(types.MustMoney("8000")))
	assert.True(t, p.MarginPercent.Equal(types.MustMoney("50")))
	assert.True(t, p.RecommendedSellingPrice.Equal(types.MustMoney("12000")),
		"8000 at 50 percent margin must recommend 12000, got %s", p.RecommendedSellingPrice)

	assert.Equal(t, int64(8), f.qty(t, f.fabric.ID))
	assert.Equal(t, int64(9), f.qty(t, f.thread.ID))
	assert.Equal(t, int64(0), f.qty(t, f.target.ID))
}

func TestCreate_InsufficientMaterialAbortsAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := New(f.target.ID, id.New())
	p.AddMaterial(f.fabric.ID, 2, types.MustMoney("3000"))
	p.AddMaterial(f.thread.ID, 11, types.MustMoney("500")) // only 10 in stock

	err := f.svc.Create(ctx, p)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// First material's deduction rolled back, nothing persisted.
	assert.Equal(t, int64(10), f.qty(t, f.fabric.ID))
	assert.Equal(t, int64(10), f.qty(t, f.thread.ID))
	_, err = f.svc.GetByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_TargetMustBeFinishedGood(t *testing.T) {
	f := newFixture()

	p := New(f.fabric.ID, id.New())
	p.AddMaterial(f.thread.ID, 1, types.MustMoney("500"))

	err := f.svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
	assert.Equal(t, int64(10), f.qty(t, f.thread.ID))
}

func TestCreate_NegativeMarginRejected(t *testing.T) {
	f := newFixture()
	f.margins.margin = types.MustMoney("-10")

	err := f.svc.Create(context.Background(), f.newOrder())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
	assert.Equal(t, int64(10), f.qty(t, f.fabric.ID))
}

func TestTransition_PendingInProgressRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))
	fabricAfterCreate := f.qty(t, f.fabric.ID)

	doc, err := f.svc.Transition(ctx, p.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, doc.Status)

	doc, err = f.svc.Transition(ctx, p.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, doc.Status)

	// Metadata-only moves never touch stock.
	assert.Equal(t, fabricAfterCreate, f.qty(t, f.fabric.ID))
	assert.Equal(t, int64(0), f.qty(t, f.target.ID))
}

func TestTransition_CompleteCreditsTargetOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))
	_, err := f.svc.Transition(ctx, p.ID, StatusInProgress)
	require.NoError(t, err)

	doc, err := f.svc.Transition(ctx, p.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, doc.Status)
	assert.Equal(t, int64(1), f.qty(t, f.target.ID))

	// Recommendation becomes the selling price.
	target, err := f.products.GetByID(ctx, f.target.ID)
	require.NoError(t, err)
	assert.True(t, target.SellingPrice.Equal(types.MustMoney("12000")))

	// Completing again must not double-credit.
	_, err = f.svc.Transition(ctx, p.ID, StatusCompleted)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStateTransition(err))
	assert.Equal(t, int64(1), f.qty(t, f.target.ID))
}

func TestTransition_CompleteRespectsPriceOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.target.SellingPrice = types.MustMoney("9999")
	f.target.PriceOverridden = true

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))
	_, err := f.svc.Transition(ctx, p.ID, StatusCompleted)
	require.NoError(t, err)

	target, err := f.products.GetByID(ctx, f.target.ID)
	require.NoError(t, err)
	assert.True(t, target.SellingPrice.Equal(types.MustMoney("9999")))
	assert.True(t, target.PriceOverridden)
}

// Round-trip law: create then cancel restores every material to its
// pre-creation stock level.
func TestTransition_CancelRestoresMaterials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))
	assert.Equal(t, int64(8), f.qty(t, f.fabric.ID))
	assert.Equal(t, int64(9), f.qty(t, f.thread.ID))

	doc, err := f.svc.Transition(ctx, p.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, doc.Status)

	assert.Equal(t, int64(10), f.qty(t, f.fabric.ID))
	assert.Equal(t, int64(10), f.qty(t, f.thread.ID))
	assert.Equal(t, int64(0), f.qty(t, f.target.ID))
}

func TestTransition_TerminalRejectsEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))
	_, err := f.svc.Transition(ctx, p.ID, StatusCancelled)
	require.NoError(t, err)

	for _, to := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled} {
		_, err := f.svc.Transition(ctx, p.ID, to)
		require.Error(t, err, "cancelled order must reject transition to %s", to)
		assert.True(t, apperror.IsInvalidStateTransition(err))
	}

	// Cancellation restored the materials exactly once.
	assert.Equal(t, int64(10), f.qty(t, f.fabric.ID))
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.newOrder()
	require.NoError(t, f.svc.Create(ctx, p))

	_, err := f.svc.Transition(ctx, p.ID, Status("shipped"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}
