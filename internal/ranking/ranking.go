// Package ranking orders game records into leaderboards using the
// per-game ranking direction.
package ranking

import (
	"minigames/internal/db"
	"minigames/internal/games"
	"sort"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ClampLimit returns fallback for a non-positive limit and caps it at MaxLimit.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

type Entry struct {
	Rank int
	db.GameRecord
}

// Rank filters records to gt, sorts them best-first and keeps the first limit.
// Equal scores keep their input order.
func Rank(records []db.GameRecord, gt games.GameType, limit int, policy games.Policy) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	filtered := make([]db.GameRecord, 0, len(records))
	for _, r := range records {
		if r.GameType == gt {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return policy.Better(gt, filtered[i].Score, filtered[j].Score)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	entries := make([]Entry, len(filtered))
	for i, r := range filtered {
		entries[i] = Entry{Rank: i + 1, GameRecord: r}
	}
	return entries
}

// Best returns the top record for gt. ok is false when there are no records,
// which is distinct from a record that scored zero.
func Best(records []db.GameRecord, gt games.GameType, policy games.Policy) (Entry, bool) {
	top := Rank(records, gt, 1, policy)
	if len(top) == 0 {
		return Entry{}, false
	}
	return top[0], true
}
