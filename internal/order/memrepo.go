package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemRepo keeps orders in process memory behind a single mutex. It backs
// the test suites and STORAGE=memory, where no Postgres is available.
type MemRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Order
}

func NewMemRepo() *MemRepo { return &MemRepo{rows: make(map[int64]Order)} }

func clonePayload(payload map[string]any) map[string]any {
	cp := make(map[string]any, len(payload))
	for k, v := range payload {
		cp[k] = v
	}
	return cp
}

func (r *MemRepo) Insert(ctx context.Context, payload map[string]any) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	o := Order{
		ID:        r.nextID,
		Status:    StatusReceived,
		CreatedAt: time.Now(),
		Payload:   clonePayload(payload),
	}
	r.rows[o.ID] = o

	out := o
	out.Payload = clonePayload(o.Payload)
	return &out, nil
}

func (r *MemRepo) List(ctx context.Context) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Order, 0, len(r.rows))
	for _, o := range r.rows {
		o.Payload = clonePayload(o.Payload)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Payload = clonePayload(o.Payload)
	return &o, nil
}

func (r *MemRepo) UpdateStatus(ctx context.Context, id int64, status string, extra map[string]any) (*Order, error) {
	if status == "" && len(extra) == 0 {
		return r.GetByID(ctx, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if status != "" {
		o.Status = status
	}
	o.Payload = clonePayload(o.Payload)
	for k, v := range extra {
		o.Payload[k] = v
	}
	r.rows[id] = o

	out := o
	out.Payload = clonePayload(o.Payload)
	return &out, nil
}

func (r *MemRepo) DeleteByID(ctx context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.rows, id)
	return &o, nil
}

func (r *MemRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = make(map[int64]Order)
	return nil
}

func (r *MemRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rows), nil
}

func (r *MemRepo) Ping(ctx context.Context) bool { return true }
