package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-r6-metrics/internal/model"
)

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(hash, match_id, map_name, match_date, game_mode,
			team_a_name, team_a_score, team_b_name, team_b_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.MatchHash, summary.MatchID, summary.MapName, summary.MatchDate,
		summary.GameMode, summary.TeamAName, summary.TeamAScore,
		summary.TeamBName, summary.TeamBScore,
	)
	return err
}

// InsertPlayerMatchStats bulk-inserts player match stats in a transaction.
func (db *DB) InsertPlayerMatchStats(stats []model.PlayerMatchStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_match_stats(
			match_hash, username,
			kills, deaths, rounds_played,
			multikills, opening_picks, opening_deaths, clutches,
			trade_differential, kost_rounds, rounds_survived,
			headshot_pct
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.MatchHash, s.Username,
			s.Kills, s.Deaths, s.RoundsPlayed,
			s.Multikills, s.OpeningPicks, s.OpeningDeaths, s.Clutches,
			s.TradeDifferential, s.KOSTRounds, s.RoundsSurvived,
			s.HeadshotPct,
		)
		if err != nil {
			return fmt.Errorf("insert player_match_stats for %s: %w", s.Username, err)
		}
	}
	return tx.Commit()
}

// InsertPlayerRoundStats bulk-inserts per-round rows in a transaction.
func (db *DB) InsertPlayerRoundStats(stats []model.PlayerRoundStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_round_stats(
			match_hash, username, round_number,
			played, kills, deaths, trade_delta,
			survived, opening_pick, opening_death,
			multikill, clutch, was_traded, kost_earned
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.MatchHash, s.Username, s.RoundNumber,
			boolInt(s.Played), s.Kills, s.Deaths, s.TradeDelta,
			boolInt(s.Survived), boolInt(s.OpeningPick), boolInt(s.OpeningDeath),
			boolInt(s.Multikill), boolInt(s.Clutch), boolInt(s.WasTraded), boolInt(s.KOSTEarned),
		)
		if err != nil {
			return fmt.Errorf("insert player_round_stats for %s: %w", s.Username, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, match_id, map_name, match_date, game_mode,
		       team_a_name, team_a_score, team_b_name, team_b_score
		FROM matches ORDER BY match_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchHash, &s.MatchID, &s.MapName, &s.MatchDate, &s.GameMode,
			&s.TeamAName, &s.TeamAScore, &s.TeamBName, &s.TeamBScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT hash, match_id, map_name, match_date, game_mode,
		       team_a_name, team_a_score, team_b_name, team_b_score
		FROM matches WHERE hash LIKE ? LIMIT 1`, prefix+"%").
		Scan(&s.MatchHash, &s.MatchID, &s.MapName, &s.MatchDate, &s.GameMode,
			&s.TeamAName, &s.TeamAScore, &s.TeamBName, &s.TeamBScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerMatchStats returns all player stats for a match hash.
func (db *DB) GetPlayerMatchStats(matchHash string) ([]model.PlayerMatchStats, error) {
	rows, err := db.conn.Query(`
		SELECT username,
		       kills, deaths, rounds_played,
		       multikills, opening_picks, opening_deaths, clutches,
		       trade_differential, kost_rounds, rounds_survived,
		       headshot_pct
		FROM player_match_stats WHERE match_hash = ?
		ORDER BY kills DESC, username`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchStats
	for rows.Next() {
		var s model.PlayerMatchStats
		if err := rows.Scan(
			&s.Username,
			&s.Kills, &s.Deaths, &s.RoundsPlayed,
			&s.Multikills, &s.OpeningPicks, &s.OpeningDeaths, &s.Clutches,
			&s.TradeDifferential, &s.KOSTRounds, &s.RoundsSurvived,
			&s.HeadshotPct,
		); err != nil {
			return nil, err
		}
		s.MatchHash = matchHash
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRoundStats returns all per-round rows for a match, round by round.
func (db *DB) GetRoundStats(matchHash string) ([]model.PlayerRoundStats, error) {
	rows, err := db.conn.Query(`
		SELECT username, round_number,
		       played, kills, deaths, trade_delta,
		       survived, opening_pick, opening_death,
		       multikill, clutch, was_traded, kost_earned
		FROM player_round_stats WHERE match_hash = ?
		ORDER BY round_number, username`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerRoundStats
	for rows.Next() {
		var s model.PlayerRoundStats
		var played, survived, oPick, oDeath, multi, clutch, traded, kost int
		if err := rows.Scan(
			&s.Username, &s.RoundNumber,
			&played, &s.Kills, &s.Deaths, &s.TradeDelta,
			&survived, &oPick, &oDeath,
			&multi, &clutch, &traded, &kost,
		); err != nil {
			return nil, err
		}
		s.MatchHash = matchHash
		s.Played = played != 0
		s.Survived = survived != 0
		s.OpeningPick = oPick != 0
		s.OpeningDeath = oDeath != 0
		s.Multikill = multi != 0
		s.Clutch = clutch != 0
		s.WasTraded = traded != 0
		s.KOSTEarned = kost != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetAllPlayerMatchStats returns every stored match-stats row for a username,
// joined with the matches table for map and date, oldest match first.
func (db *DB) GetAllPlayerMatchStats(username string) ([]model.PlayerMatchStats, error) {
	rows, err := db.conn.Query(`
		SELECT p.match_hash, m.map_name, m.match_date,
		       p.kills, p.deaths, p.rounds_played,
		       p.multikills, p.opening_picks, p.opening_deaths, p.clutches,
		       p.trade_differential, p.kost_rounds, p.rounds_survived,
		       p.headshot_pct
		FROM player_match_stats p
		JOIN matches m ON m.hash = p.match_hash
		WHERE p.username = ?
		ORDER BY m.match_date, p.match_hash`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchStats
	for rows.Next() {
		var s model.PlayerMatchStats
		if err := rows.Scan(
			&s.MatchHash, &s.MapName, &s.MatchDate,
			&s.Kills, &s.Deaths, &s.RoundsPlayed,
			&s.Multikills, &s.OpeningPicks, &s.OpeningDeaths, &s.Clutches,
			&s.TradeDifferential, &s.KOSTRounds, &s.RoundsSurvived,
			&s.HeadshotPct,
		); err != nil {
			return nil, err
		}
		s.Username = username
		out = append(out, s)
	}
	return out, rows.Err()
}

// AggregatePlayers sums every stored counter per username, most kills first.
// A positive limit caps the result.
func (db *DB) AggregatePlayers(limit int) ([]model.PlayerAggregate, error) {
	query := `
		SELECT username, COUNT(1),
		       SUM(kills), SUM(deaths), SUM(rounds_played),
		       SUM(multikills), SUM(opening_picks), SUM(opening_deaths), SUM(clutches),
		       SUM(trade_differential), SUM(kost_rounds), SUM(rounds_survived)
		FROM player_match_stats
		GROUP BY username
		ORDER BY SUM(kills) DESC, username`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAggregate
	for rows.Next() {
		var a model.PlayerAggregate
		if err := rows.Scan(
			&a.Username, &a.Matches,
			&a.Kills, &a.Deaths, &a.RoundsPlayed,
			&a.Multikills, &a.OpeningPicks, &a.OpeningDeaths, &a.Clutches,
			&a.TradeDifferential, &a.KOSTRounds, &a.RoundsSurvived,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Overview summarizes the whole cache for the summary command.
type Overview struct {
	Matches   int
	Players   int
	RoundRows int
}

func (db *DB) GetOverview() (*Overview, error) {
	var o Overview
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM matches").Scan(&o.Matches); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(DISTINCT username) FROM player_match_stats").Scan(&o.Players); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM player_round_stats").Scan(&o.RoundRows); err != nil {
		return nil, err
	}
	return &o, nil
}

// MapCount is one row of the per-map breakdown.
type MapCount struct {
	MapName string
	Matches int
}

// GetMapBreakdown counts stored matches per map, most played first.
func (db *DB) GetMapBreakdown() ([]MapCount, error) {
	rows, err := db.conn.Query(`
		SELECT map_name, COUNT(1) FROM matches
		GROUP BY map_name ORDER BY COUNT(1) DESC, map_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MapCount
	for rows.Next() {
		var mc MapCount
		if err := rows.Scan(&mc.MapName, &mc.Matches); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// DeleteMatch removes a stored match and all of its per-player rows.
func (db *DB) DeleteMatch(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM player_round_stats WHERE match_hash = ?",
		"DELETE FROM player_match_stats WHERE match_hash = ?",
		"DELETE FROM matches WHERE hash = ?",
	} {
		if _, err := tx.Exec(q, hash); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QueryRaw runs an ad-hoc query and returns column names plus stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		for i := range vals {
			vals[i] = new(sql.NullString)
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			ns := v.(*sql.NullString)
			if ns.Valid {
				row[i] = ns.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
