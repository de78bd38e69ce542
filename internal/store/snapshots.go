package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/courierround/internal/obs"
	"github.com/katalvlaran/courierround/session"
)

// ErrSnapshotNotFound indicates an unknown snapshot id.
var ErrSnapshotNotFound = errors.New("store: snapshot not found")

// stampLayout is fixed-width so created_at sorts as text.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	ID          uuid.UUID `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SnapshotRepo stores serialized rounds.
type SnapshotRepo struct {
	store *Store
}

// NewSnapshotRepo returns a repository over s.
func NewSnapshotRepo(s *Store) *SnapshotRepo {
	return &SnapshotRepo{store: s}
}

// Save stores snap under a fresh id.
func (r *SnapshotRepo) Save(ctx context.Context, snap session.Snapshot) (_ SnapshotInfo, err error) {
	defer obs.Time(ctx, "snapshot.Save")(&err)

	payload, err := json.Marshal(snap)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot: encode: %w", err)
	}
	info := SnapshotInfo{ID: uuid.New(), Fingerprint: snap.Fingerprint, CreatedAt: time.Now().UTC()}

	_, err = r.store.db.ExecContext(ctx, r.store.rebind(`
	INSERT INTO round_snapshots (id, fingerprint, payload, created_at)
	VALUES (?, ?, ?, ?)`),
		info.ID.String(), info.Fingerprint, string(payload), info.CreatedAt.Format(stampLayout))
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot: insert: %w", err)
	}

	return info, nil
}

// Load returns the snapshot with id.
func (r *SnapshotRepo) Load(ctx context.Context, id uuid.UUID) (_ session.Snapshot, err error) {
	defer obs.Time(ctx, "snapshot.Load")(&err)

	var payload string
	err = r.store.db.QueryRowContext(ctx,
		r.store.rebind(`SELECT payload FROM round_snapshots WHERE id = ?`), id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load snapshot: query: %w", err)
	}

	var snap session.Snapshot
	if err = json.Unmarshal([]byte(payload), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("load snapshot %s: decode: %w", id, err)
	}

	return snap, nil
}

// List returns the snapshots taken on the map with fingerprint, newest first.
func (r *SnapshotRepo) List(ctx context.Context, fingerprint string) ([]SnapshotInfo, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(`
	SELECT id, fingerprint, created_at
	FROM round_snapshots
	WHERE fingerprint = ?
	ORDER BY created_at DESC`), fingerprint)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: query: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var (
			info      SnapshotInfo
			id, stamp string
		)
		if err := rows.Scan(&id, &info.Fingerprint, &stamp); err != nil {
			return nil, fmt.Errorf("list snapshots: scan rows: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list snapshots: bad id %q: %w", id, err)
		}
		if info.CreatedAt, err = time.Parse(stampLayout, stamp); err != nil {
			return nil, fmt.Errorf("list snapshots: bad timestamp %q: %w", stamp, err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: row iteration: %w", err)
	}

	return out, nil
}

// Delete removes the snapshot with id.
func (r *SnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(`DELETE FROM round_snapshots WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}

	return nil
}
