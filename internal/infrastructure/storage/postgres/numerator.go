package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"makerbooks/internal/core/numerator"
)

// Compile-time check that Numerator implements the domain contract.
var _ numerator.Generator = (*Numerator)(nil)

type cachedRange struct {
	current int64
	max     int64
}

// querierSource abstracts TxManager.GetQuerier so tests can stub the
// database round trips.
type querierSource interface {
	GetQuerier(ctx context.Context) Querier
}

// Numerator generates document numbers from the sys_sequences table.
//
// Strict strategy takes one UPSERT ... RETURNING round trip per number
// and produces gapless sequences. Cached strategy reserves a range per
// round trip and hands numbers out from memory; restarts may leave
// gaps.
type Numerator struct {
	db querierSource

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// NewNumerator creates a numerator backed by the given tx manager.
func NewNumerator(db querierSource) *Numerator {
	return &Numerator{
		db:     db,
		ranges: make(map[string]*cachedRange),
	}
}

// GetNextNumber implements numerator.Generator.
func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	if opts == nil {
		opts = numerator.DefaultOptions()
	}

	key := buildSequenceKey(cfg, period)

	var num int64
	var err error
	switch opts.Strategy {
	case numerator.StrategyCached:
		num, err = n.nextCached(ctx, key, opts)
	default:
		num, err = n.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

// nextStrict fetches the next number directly from the table.
func (n *Numerator) nextStrict(ctx context.Context, key string) (int64, error) {
	querier := n.db.GetQuerier(ctx)

	var num int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	return num, nil
}

// nextCached hands out numbers from an in-memory range, reserving a new
// range from the table when the current one is exhausted.
func (n *Numerator) nextCached(ctx context.Context, key string, opts *numerator.Options) (int64, error) {
	n.cacheMu.Lock()
	defer n.cacheMu.Unlock()

	rng, exists := n.ranges[key]
	if !exists {
		rng = &cachedRange{}
		n.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val tracks the last allocated number, so bumping it by
		// size reserves (old_val, old_val+size].
		querier := n.db.GetQuerier(ctx)
		var newMax int64
		err := querier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve sequence range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber implements numerator.Generator (for migrations).
func (n *Numerator) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	key := buildSequenceKey(cfg, period)
	querier := n.db.GetQuerier(ctx)

	var result int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	n.cacheMu.Lock()
	delete(n.ranges, key)
	n.cacheMu.Unlock()

	return err
}

// buildSequenceKey creates the sequence key based on config and period.
func buildSequenceKey(cfg numerator.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func formatNumber(cfg numerator.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}
