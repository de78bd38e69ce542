package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/courierround/internal/obs"
)

// DistanceCache is the SQL implementation of matrix.DistanceCache.
// namespace is the road-graph fingerprint, so distances of different maps
// never mix.
type DistanceCache struct {
	store *Store
}

// NewDistanceCache returns a cache over s.
func NewDistanceCache(s *Store) *DistanceCache {
	return &DistanceCache{store: s}
}

// GetMany returns the cached distances from origin to destinations.
// Missing pairs are simply absent from the result.
func (c *DistanceCache) GetMany(
	ctx context.Context,
	namespace, origin string,
	destinations []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if c.store == nil || c.store.db == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if namespace == "" || origin == "" {
		return nil, errors.New("get distance cache: namespace and origin must not be empty")
	}

	seen := map[string]struct{}{}
	args := make([]any, 0, 2+len(destinations))
	args = append(args, namespace, origin)
	ph := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		args = append(args, d)
		ph = append(ph, "?")
	}
	if len(ph) == 0 {
		return map[string]float64{}, nil
	}

	// Only the placeholder list is interpolated; values stay parameterized.
	q := c.store.rebind(fmt.Sprintf(`
	SELECT destination, meters
	FROM distance_cache
	WHERE namespace = ?
		AND origin = ?
		AND destination IN (%s)`, strings.Join(ph, ",")))

	rows, err := c.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(ph))
	for rows.Next() {
		var (
			dest   string
			meters float64
		)
		if err := rows.Scan(&dest, &meters); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = meters
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany stores the distances from origin, replacing existing entries.
func (c *DistanceCache) PutMany(
	ctx context.Context,
	namespace, origin string,
	distances map[string]float64,
) (err error) {
	defer obs.Time(ctx, "distance.cache.PutMany")(&err)

	if c.store == nil || c.store.db == nil {
		return errors.New("distance cache: db is nil")
	}
	if namespace == "" || origin == "" {
		return errors.New("insert distance cache: namespace and origin must not be empty")
	}
	if len(distances) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, c.store.rebind(`
	INSERT INTO distance_cache (namespace, origin, destination, meters)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (namespace, origin, destination) DO UPDATE
	SET meters = EXCLUDED.meters`))
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, meters := range distances {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, namespace, origin, dest, meters); err != nil {
			return fmt.Errorf("insert distance cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}

// Purge drops every entry of namespace and returns how many were removed.
func (c *DistanceCache) Purge(ctx context.Context, namespace string) (int64, error) {
	res, err := c.store.db.ExecContext(ctx, c.store.rebind(`DELETE FROM distance_cache WHERE namespace = ?`), namespace)
	if err != nil {
		return 0, fmt.Errorf("purge distance cache: %w", err)
	}

	return res.RowsAffected()
}
