package storage

import (
	"testing"

	"github.com/pable/go-r6-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	summary := model.MatchSummary{
		MatchHash:  "abc123",
		MatchID:    "29f8d6a2",
		MapName:    "CHALET",
		MatchDate:  "2025-11-02",
		GameMode:   "BOMB",
		TeamAName:  "YOUR TEAM",
		TeamAScore: 4,
		TeamBName:  "OPPONENTS",
		TeamBScore: 2,
	}

	if err := db.InsertMatch(summary); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists("abc123")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	summaries := []model.MatchSummary{
		{MatchHash: "h1", MapName: "CLUB_HOUSE", MatchDate: "2025-10-01", GameMode: "BOMB"},
		{MatchHash: "h2", MapName: "KAFE_DOSTOYEVSKY", MatchDate: "2025-11-01", GameMode: "BOMB"},
	}
	for _, s := range summaries {
		if err := db.InsertMatch(s); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 matches, got %d", len(list))
	}
	// Ordered by match_date DESC, h2 is newest.
	if list[0].MatchHash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].MatchHash)
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "deadbeef1234", MapName: "OREGON", MatchDate: "2025-10-01"})

	s, err := db.GetMatchByPrefix("deadb")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if s == nil {
		t.Fatal("expected match for prefix 'deadb'")
	}
	if s.MatchHash != "deadbeef1234" {
		t.Errorf("unexpected hash %s", s.MatchHash)
	}

	s2, err := db.GetMatchByPrefix("ffffffff")
	if err != nil {
		t.Fatalf("GetMatchByPrefix no-match: %v", err)
	}
	if s2 != nil {
		t.Error("expected nil for unknown prefix")
	}
}

func TestPlayerMatchStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-10-01"})

	stats := []model.PlayerMatchStats{
		{
			MatchHash: "h1", Username: "Alice",
			Kills: 9, Deaths: 5, RoundsPlayed: 7,
			Multikills: 2, OpeningPicks: 3, OpeningDeaths: 1, Clutches: 1,
			TradeDifferential: 4, KOSTRounds: 6, RoundsSurvived: 2,
			HeadshotPct: 55.6,
		},
		{
			MatchHash: "h1", Username: "Bob",
			Kills: 4, Deaths: 7, RoundsPlayed: 7,
			Multikills: 0, OpeningPicks: 0, OpeningDeaths: 2, Clutches: 0,
			TradeDifferential: -3, KOSTRounds: 3, RoundsSurvived: 0,
			HeadshotPct: 25,
		},
	}

	if err := db.InsertPlayerMatchStats(stats); err != nil {
		t.Fatalf("InsertPlayerMatchStats: %v", err)
	}

	got, err := db.GetPlayerMatchStats("h1")
	if err != nil {
		t.Fatalf("GetPlayerMatchStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 player rows, got %d", len(got))
	}
	// Ordered by kills DESC, Alice first.
	if got[0].Username != "Alice" {
		t.Errorf("expected Alice first, got %s", got[0].Username)
	}

	alice := got[0]
	if alice.Kills != 9 || alice.Clutches != 1 || alice.KOSTRounds != 6 {
		t.Errorf("Alice stats mismatch: kills=%d clutches=%d kost=%d", alice.Kills, alice.Clutches, alice.KOSTRounds)
	}
	if alice.HeadshotPct != 55.6 {
		t.Errorf("Alice headshot pct: want 55.6, got %f", alice.HeadshotPct)
	}
	bob := got[1]
	if bob.TradeDifferential != -3 {
		t.Errorf("Bob trade differential: want -3, got %d", bob.TradeDifferential)
	}
}

func TestRoundStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "BANK", MatchDate: "2025-10-01"})

	rounds := []model.PlayerRoundStats{
		{
			MatchHash: "h1", Username: "Alice", RoundNumber: 1,
			Played: true, Kills: 2, Deaths: 0, TradeDelta: 2,
			Survived: true, OpeningPick: true, Multikill: true, Clutch: true, KOSTEarned: true,
		},
		{
			MatchHash: "h1", Username: "Alice", RoundNumber: 2,
			Played: true, Kills: 0, Deaths: 1, TradeDelta: -1,
			OpeningDeath: true, WasTraded: true, KOSTEarned: true,
		},
	}
	if err := db.InsertPlayerRoundStats(rounds); err != nil {
		t.Fatalf("InsertPlayerRoundStats: %v", err)
	}

	got, err := db.GetRoundStats("h1")
	if err != nil {
		t.Fatalf("GetRoundStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 round rows, got %d", len(got))
	}
	r1 := got[0]
	if r1.RoundNumber != 1 || !r1.Clutch || !r1.Multikill || !r1.Survived || r1.TradeDelta != 2 {
		t.Errorf("round 1 row mismatch: %+v", r1)
	}
	r2 := got[1]
	if !r2.OpeningDeath || !r2.WasTraded || !r2.KOSTEarned || r2.Survived {
		t.Errorf("round 2 row mismatch: %+v", r2)
	}
}

func TestGetAllPlayerMatchStats(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-09-01"})
	db.InsertMatch(model.MatchSummary{MatchHash: "h2", MapName: "OREGON", MatchDate: "2025-10-01"})
	db.InsertPlayerMatchStats([]model.PlayerMatchStats{
		{MatchHash: "h1", Username: "Alice", Kills: 5, RoundsPlayed: 6},
		{MatchHash: "h2", Username: "Alice", Kills: 8, RoundsPlayed: 9},
		{MatchHash: "h2", Username: "Bob", Kills: 2, RoundsPlayed: 9},
	})

	got, err := db.GetAllPlayerMatchStats("Alice")
	if err != nil {
		t.Fatalf("GetAllPlayerMatchStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for Alice, got %d", len(got))
	}
	// Oldest first, with map and date joined in from matches.
	if got[0].MatchHash != "h1" || got[0].MapName != "CHALET" || got[0].MatchDate != "2025-09-01" {
		t.Errorf("first row should be the September match on CHALET: %+v", got[0])
	}
	if got[1].Kills != 8 {
		t.Errorf("second row kills: want 8, got %d", got[1].Kills)
	}
}

func TestAggregatePlayers(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-09-01"})
	db.InsertMatch(model.MatchSummary{MatchHash: "h2", MapName: "OREGON", MatchDate: "2025-10-01"})
	db.InsertPlayerMatchStats([]model.PlayerMatchStats{
		{MatchHash: "h1", Username: "Alice", Kills: 5, RoundsPlayed: 6, KOSTRounds: 4, Clutches: 1},
		{MatchHash: "h2", Username: "Alice", Kills: 8, RoundsPlayed: 9, KOSTRounds: 7},
		{MatchHash: "h2", Username: "Bob", Kills: 2, RoundsPlayed: 9, KOSTRounds: 3},
	})

	aggs, err := db.AggregatePlayers(0)
	if err != nil {
		t.Fatalf("AggregatePlayers: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregated players, got %d", len(aggs))
	}
	alice := aggs[0]
	if alice.Username != "Alice" {
		t.Fatalf("expected Alice first (most kills), got %s", alice.Username)
	}
	if alice.Matches != 2 || alice.Kills != 13 || alice.RoundsPlayed != 15 || alice.KOSTRounds != 11 || alice.Clutches != 1 {
		t.Errorf("Alice aggregate mismatch: %+v", alice)
	}

	top, err := db.AggregatePlayers(1)
	if err != nil {
		t.Fatalf("AggregatePlayers limit: %v", err)
	}
	if len(top) != 1 || top[0].Username != "Alice" {
		t.Errorf("limit 1 should return only Alice, got %+v", top)
	}
}

func TestOverviewAndMapBreakdown(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-09-01"})
	db.InsertMatch(model.MatchSummary{MatchHash: "h2", MapName: "CHALET", MatchDate: "2025-10-01"})
	db.InsertMatch(model.MatchSummary{MatchHash: "h3", MapName: "BANK", MatchDate: "2025-10-02"})
	db.InsertPlayerMatchStats([]model.PlayerMatchStats{
		{MatchHash: "h1", Username: "Alice"},
		{MatchHash: "h2", Username: "Alice"},
		{MatchHash: "h2", Username: "Bob"},
	})
	db.InsertPlayerRoundStats([]model.PlayerRoundStats{
		{MatchHash: "h1", Username: "Alice", RoundNumber: 1, Played: true},
	})

	o, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if o.Matches != 3 || o.Players != 2 || o.RoundRows != 1 {
		t.Errorf("overview mismatch: %+v", o)
	}

	maps, err := db.GetMapBreakdown()
	if err != nil {
		t.Fatalf("GetMapBreakdown: %v", err)
	}
	if len(maps) != 2 || maps[0].MapName != "CHALET" || maps[0].Matches != 2 {
		t.Errorf("map breakdown mismatch: %+v", maps)
	}
}

func TestDeleteMatch(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-09-01"})
	db.InsertPlayerMatchStats([]model.PlayerMatchStats{{MatchHash: "h1", Username: "Alice", Kills: 3}})
	db.InsertPlayerRoundStats([]model.PlayerRoundStats{{MatchHash: "h1", Username: "Alice", RoundNumber: 1, Played: true}})

	if err := db.DeleteMatch("h1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	exists, _ := db.MatchExists("h1")
	if exists {
		t.Error("match should be gone after delete")
	}
	stats, _ := db.GetPlayerMatchStats("h1")
	if len(stats) != 0 {
		t.Errorf("player rows should be gone, got %d", len(stats))
	}
	rounds, _ := db.GetRoundStats("h1")
	if len(rounds) != 0 {
		t.Errorf("round rows should be gone, got %d", len(rounds))
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchHash: "h1", MapName: "CHALET", MatchDate: "2025-09-01"})

	cols, rows, err := db.QueryRaw("SELECT hash, map_name FROM matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "hash" {
		t.Errorf("unexpected columns: %v", cols)
	}
	if len(rows) != 1 || rows[0][1] != "CHALET" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	s := model.MatchSummary{MatchHash: "idem1", MapName: "NIGHTHAVEN_LABS", MatchDate: "2025-10-01"}
	db.InsertMatch(s)
	// Second insert must not error, inserts use INSERT OR REPLACE.
	if err := db.InsertMatch(s); err != nil {
		t.Errorf("second InsertMatch should succeed (idempotent): %v", err)
	}

	db.InsertPlayerMatchStats([]model.PlayerMatchStats{{MatchHash: "idem1", Username: "Alice", Kills: 3}})
	if err := db.InsertPlayerMatchStats([]model.PlayerMatchStats{{MatchHash: "idem1", Username: "Alice", Kills: 3}}); err != nil {
		t.Errorf("player stats re-insert should succeed (idempotent): %v", err)
	}
	got, _ := db.GetPlayerMatchStats("idem1")
	if len(got) != 1 {
		t.Errorf("re-insert must not duplicate rows, got %d", len(got))
	}
}
