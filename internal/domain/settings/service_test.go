package settings

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/types"
)

// memRepo is an in-memory Repository for tests.
type memRepo struct {
	table MarginTable
	rates []ExchangeRate
}

func (m *memRepo) GetMarginTable(ctx context.Context) (MarginTable, error) {
	if m.table == nil {
		return MarginTable{}, nil
	}
	return m.table, nil
}

func (m *memRepo) SaveMarginTable(ctx context.Context, table MarginTable) error {
	m.table = table
	return nil
}

func (m *memRepo) AddRate(ctx context.Context, rate *ExchangeRate) error {
	m.rates = append(m.rates, *rate)
	return nil
}

func (m *memRepo) LatestRateOn(ctx context.Context, ref time.Time) (*ExchangeRate, error) {
	candidates := make([]ExchangeRate, 0, len(m.rates))
	for _, r := range m.rates {
		if !r.EffectiveDate.After(ref) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, apperror.NewNotFound("exchange_rate", ref.Format("2006-01-02"))
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].EffectiveDate.After(candidates[j].EffectiveDate)
	})
	return &candidates[0], nil
}

func (m *memRepo) ListRates(ctx context.Context, limit, offset int) ([]ExchangeRate, error) {
	return m.rates, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveMargin_CategoryOverridesDefault(t *testing.T) {
	repo := &memRepo{table: MarginTable{
		DefaultMarginKey: types.MustMoney("40"),
		"bags":           types.MustMoney("65"),
	}}
	svc := NewService(repo)
	ctx := context.Background()

	pct, err := svc.ResolveMargin(ctx, "bags")
	require.NoError(t, err)
	assert.True(t, pct.Equal(types.MustMoney("65")), "got %s", pct)

	pct, err = svc.ResolveMargin(ctx, "belts")
	require.NoError(t, err)
	assert.True(t, pct.Equal(types.MustMoney("40")), "got %s", pct)
}

func TestResolveMargin_NoDefault(t *testing.T) {
	svc := NewService(&memRepo{table: MarginTable{"bags": types.MustMoney("65")}})

	_, err := svc.ResolveMargin(context.Background(), "belts")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSaveMargins_RejectsNegative(t *testing.T) {
	svc := NewService(&memRepo{})

	err := svc.SaveMargins(context.Background(), MarginTable{
		DefaultMarginKey: types.MustMoney("-5"),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestCurrentRate_PicksLatestEffectiveDate(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	for _, r := range []struct {
		rate string
		date string
	}{
		{"1420", "2026-01-01"},
		{"1500", "2026-03-01"},
		{"1580", "2026-06-01"},
	} {
		_, err := svc.RecordRate(ctx, types.MustMoney(r.rate), day(r.date), "")
		require.NoError(t, err)
	}

	// Between the second and third rows the second is in force.
	rate, err := svc.CurrentRate(ctx, day("2026-04-15"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("1500")), "got %s", rate)

	// On the exact effective date the new rate applies.
	rate, err = svc.CurrentRate(ctx, day("2026-06-01"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("1580")), "got %s", rate)

	// Before the first row there is no rate.
	_, err = svc.CurrentRate(ctx, day("2025-12-31"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordRate_RejectsNonPositive(t *testing.T) {
	svc := NewService(&memRepo{})

	_, err := svc.RecordRate(context.Background(), types.Zero(), day("2026-01-01"), "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}
