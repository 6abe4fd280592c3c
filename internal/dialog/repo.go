package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store keeps one dialog step per chat.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Item, error)
	Set(ctx context.Context, chatID int64, state State, payload Payload) error
	Reset(ctx context.Context, chatID int64) error
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, chatID int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT state, payload FROM dialog_states WHERE chat_id = $1`, chatID)
	var state string
	var raw []byte
	if err := row.Scan(&state, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return idle(chatID), nil
		}
		return idle(chatID), fmt.Errorf("load dialog: %w", err)
	}
	p := Payload{}
	_ = json.Unmarshal(raw, &p)
	return &Item{ChatID: chatID, State: State(state), Payload: p}, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO dialog_states (chat_id, state, payload, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id) DO UPDATE SET
		  state=$2, payload=$3, updated_at=now()
	`, chatID, string(state), raw)
	return err
}

func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM dialog_states WHERE chat_id = $1`, chatID)
	return err
}

// MemoryRepo keeps dialogs in process memory. Payloads go through JSON so reads
// look the same as from Postgres.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[int64]memItem
}

type memItem struct {
	state State
	raw   []byte
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{items: make(map[int64]memItem)} }

func (r *MemoryRepo) Get(_ context.Context, chatID int64) (*Item, error) {
	r.mu.Lock()
	it, ok := r.items[chatID]
	r.mu.Unlock()
	if !ok {
		return idle(chatID), nil
	}
	p := Payload{}
	_ = json.Unmarshal(it.raw, &p)
	return &Item{ChatID: chatID, State: it.state, Payload: p}, nil
}

func (r *MemoryRepo) Set(_ context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	r.mu.Lock()
	r.items[chatID] = memItem{state: state, raw: raw}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Reset(_ context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.items, chatID)
	r.mu.Unlock()
	return nil
}

func idle(chatID int64) *Item {
	return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}
}

// GetString reads a string value from the payload.
func GetString(p Payload, key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 reads a number stored through JSON (float64) or a numeric string.
func GetInt64(p Payload, key string) (int64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func GetFloat(p Payload, key string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Clone copies p so a step can extend it without touching the stored map.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}
