package db

import (
	"context"
	"fmt"
	"log"
	"math"
	"minigames/internal/games"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in insertion order for the life of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []GameRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	log.Println("[DB] Using in-memory record store")
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, rec GameRecord) (string, error) {
	rec.Normalize(m.now())
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	return rec.ID, nil
}

func (m *MemoryStore) Query(_ context.Context, f Filter) ([]GameRecord, error) {
	m.mu.RLock()
	out := make([]GameRecord, 0, len(m.records))
	for _, r := range m.records {
		if f.GameType != "" && r.GameType != f.GameType {
			continue
		}
		if f.PlayerID != "" && r.PlayerID != f.PlayerID {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()

	switch f.Order {
	case OrderScoreAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	case OrderScoreDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) Aggregate(_ context.Context) (Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byType := make(map[games.GameType]*GroupSummary)
	for _, r := range m.records {
		g, ok := byType[r.GameType]
		if !ok {
			g = &GroupSummary{GameType: r.GameType, MinScore: r.Score, MaxScore: r.Score}
			byType[r.GameType] = g
		}
		g.Count++
		g.AvgScore += r.Score
		g.TotalTime += r.Time
		g.MinScore = math.Min(g.MinScore, r.Score)
		g.MaxScore = math.Max(g.MaxScore, r.Score)
	}

	groups := make([]GroupSummary, 0, len(byType))
	for _, g := range byType {
		g.AvgScore /= float64(g.Count)
		groups = append(groups, *g)
	}
	return summarize(groups), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
