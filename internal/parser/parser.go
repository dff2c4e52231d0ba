package parser

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pable/go-r6-metrics/internal/model"
)

// ParseReplay reads a match export at path and returns a RawMatch.
//
// The export is the JSON produced by dissecting a .rec match folder: a single
// object with a `rounds` array (per-round headers, matchFeedback events and
// scoreboard snapshots) and a top-level `stats` array (match-aggregate lines).
// Both keys are required; anything else missing is tolerated per round.
func ParseReplay(path string) (*model.RawMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}

	// Hash file for idempotency key.
	matchHash := fmt.Sprintf("%x", sha256.Sum256(data))

	// Decode the envelope first so absent top-level keys are distinguishable
	// from empty ones. A replay without rounds or stats is structurally
	// invalid; everything below that is handled per round.
	var env struct {
		Rounds *json.RawMessage `json:"rounds"`
		Stats  *json.RawMessage `json:"stats"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	if env.Rounds == nil {
		return nil, fmt.Errorf("invalid replay: missing rounds")
	}
	if env.Stats == nil {
		return nil, fmt.Errorf("invalid replay: missing stats")
	}

	raw := &model.RawMatch{
		MatchHash:  matchHash,
		SourcePath: path,
	}
	if err := json.Unmarshal(*env.Rounds, &raw.Rounds); err != nil {
		return nil, fmt.Errorf("decode rounds: %w", err)
	}
	if err := json.Unmarshal(*env.Stats, &raw.MatchStats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	fillMetadata(raw)
	return raw, nil
}

// fillMetadata lifts match-level fields out of the round headers. Headers
// repeat per round with cumulative team scores, so the last round that
// carries a field wins.
func fillMetadata(raw *model.RawMatch) {
	for i := range raw.Rounds {
		r := &raw.Rounds[i]
		if r.MatchID != "" {
			raw.MatchID = r.MatchID
		}
		if r.Map.Name != "" {
			raw.MapName = r.Map.Name
		}
		if r.GameMode.Name != "" {
			raw.GameMode = r.GameMode.Name
		}
		if r.Timestamp != "" {
			raw.MatchDate = r.Timestamp
		}
		if len(r.Teams) > 0 {
			raw.Teams = r.Teams
		}
	}
	raw.MatchDate = normalizeDate(raw.MatchDate)
}

func normalizeDate(ts string) string {
	if ts == "" {
		return time.Now().Format("2006-01-02") // minimal exports omit timestamps
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02")
	}
	return ts
}
