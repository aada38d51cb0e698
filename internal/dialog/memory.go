package dialog

import (
	"context"
	"encoding/json"
	"sync"
)

// MemRepo хранит состояние в памяти. Payload проходит через JSON так же,
// как в Postgres, поэтому числа после чтения — float64.
type MemRepo struct {
	mu   sync.Mutex
	rows map[int64]memRow
}

type memRow struct {
	state State
	raw   []byte
}

func NewMemRepo() *MemRepo { return &MemRepo{rows: map[int64]memRow{}} }

func (r *MemRepo) Get(_ context.Context, chatID int64) (*Item, error) {
	r.mu.Lock()
	row, ok := r.rows[chatID]
	r.mu.Unlock()
	if !ok {
		return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
	}
	p := Payload{}
	if err := json.Unmarshal(row.raw, &p); err != nil {
		return nil, err
	}
	return &Item{ChatID: chatID, State: row.state, Payload: p}, nil
}

func (r *MemRepo) Set(_ context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.rows[chatID] = memRow{state: state, raw: raw}
	r.mu.Unlock()
	return nil
}

func (r *MemRepo) Reset(_ context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.rows, chatID)
	r.mu.Unlock()
	return nil
}
