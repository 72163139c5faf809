package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
)

// Repository persists orders. Not-found is always reported as
// ErrNotFound; any other error is a storage fault and callers must not
// conflate the two.
type Repository interface {
	Insert(ctx context.Context, payload map[string]any) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	// UpdateStatus changes the status and merges extra fields into the
	// payload. With nothing to change it degenerates to a plain fetch.
	UpdateStatus(ctx context.Context, id int64, status string, extra map[string]any) (*Order, error)
	DeleteByID(ctx context.Context, id int64) (*Order, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	// Ping reports whether the backing store is reachable. It never
	// returns an error, only false.
	Ping(ctx context.Context) bool
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Setup makes sure the pedidos table exists.
func (r *PGRepo) Setup(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pedidos (
			id BIGSERIAL PRIMARY KEY,
			status VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			data JSONB NOT NULL
		)
	`)
	return err
}

func (r *PGRepo) Insert(ctx context.Context, payload map[string]any) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		INSERT INTO pedidos (status, data)
		VALUES ($1, $2)
		RETURNING id, status, created_at, data
	`, StatusReceived, payload).Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Payload)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, status, created_at, data
		FROM pedidos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Payload); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT id, status, created_at, data
		FROM pedidos WHERE id=$1
	`, id).Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, status string, extra map[string]any) (*Order, error) {
	if status == "" && len(extra) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if extra == nil {
		extra = map[string]any{}
	}
	var o Order
	err := r.db.QueryRow(ctx, `
		UPDATE pedidos
		SET status = COALESCE(NULLIF($2,''), status),
		    data = data || $3::jsonb
		WHERE id = $1
		RETURNING id, status, created_at, data
	`, id, status, extra).Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) DeleteByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		DELETE FROM pedidos
		WHERE id = $1
		RETURNING id, status, created_at, data
	`, id).Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM pedidos`)
	return err
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pedidos`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return false
	}
	return one == 1
}
