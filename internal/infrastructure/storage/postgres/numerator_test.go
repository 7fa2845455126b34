package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"makerbooks/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: current_val grows by
// the increment argument (1 for strict, the range size for cached).
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	queryCount   int
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.queryCount++
	return &mockRow{val: m.currentValue}
}

type mockSource struct {
	querier Querier
}

func (m *mockSource) GetQuerier(ctx context.Context) Querier {
	return m.querier
}

var testPeriod = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	n := NewNumerator(&mockSource{querier: q})
	ctx := context.Background()
	cfg := numerator.DefaultConfig("SALE")

	num, err := n.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SALE-2026-00001" {
		t.Errorf("expected SALE-2026-00001, got %s", num)
	}

	num, err = n.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SALE-2026-00002" {
		t.Errorf("expected SALE-2026-00002, got %s", num)
	}

	if q.queryCount != 2 {
		t.Errorf("strict strategy must hit the database per number, got %d queries", q.queryCount)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	n := NewNumerator(&mockSource{querier: q})
	ctx := context.Background()
	cfg := numerator.DefaultConfig("PO")

	opts := &numerator.Options{
		Strategy:  numerator.StrategyCached,
		RangeSize: 10,
	}

	// First call allocates 1..10 in one round trip.
	num, err := n.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00001" {
		t.Errorf("expected PO-2026-00001, got %s", num)
	}

	// The next nine numbers come from memory.
	for i := 2; i <= 10; i++ {
		if _, err := n.GetNextNumber(ctx, cfg, opts, testPeriod); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if q.queryCount != 1 {
		t.Errorf("expected one range allocation, got %d queries", q.queryCount)
	}

	// Number 11 exhausts the range and triggers a refill.
	num, err = n.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00011" {
		t.Errorf("expected PO-2026-00011, got %s", num)
	}
	if q.queryCount != 2 {
		t.Errorf("expected second range allocation, got %d queries", q.queryCount)
	}
}

func TestGetNextNumber_NoYear(t *testing.T) {
	q := &mockQuerier{}
	n := NewNumerator(&mockSource{querier: q})

	cfg := numerator.Config{Prefix: "PRD", PadWidth: 3, ResetPeriod: "never"}
	num, err := n.GetNextNumber(context.Background(), cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PRD-001" {
		t.Errorf("expected PRD-001, got %s", num)
	}
}
