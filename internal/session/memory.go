package session

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/medusa-dj/djrogue/internal/game"
)

// MemoryStore is the in-process store. Values are cloned on the way in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*game.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*game.State)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, id string, st *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = st.Clone()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryStore) TopScores(_ context.Context, minTurn, limit int) ([]ScoreRow, error) {
	m.mu.RLock()
	rows := make([]ScoreRow, 0, len(m.data))
	for id, st := range m.data {
		if st.Turn >= minTurn {
			rows = append(rows, ScoreRow{ID: id, Turn: st.Turn, Score: st.Score})
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(rows, func(a, b ScoreRow) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
