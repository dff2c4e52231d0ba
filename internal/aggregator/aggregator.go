package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-r6-metrics/internal/model"
)

// Aggregate computes PlayerMatchStats and PlayerRoundStats from a RawMatch.
//
// Each round is walked exactly once: the kill timeline and scoreboard snapshot
// yield one delta row per participant, and the rows fold into per-player
// match accumulators. Rows carry independent deltas, so the fold result does
// not depend on round order.
func Aggregate(raw *model.RawMatch) ([]model.PlayerMatchStats, []model.PlayerRoundStats, error) {
	if raw == nil {
		return nil, nil, fmt.Errorf("nil RawMatch")
	}

	accums := make(map[string]*matchAccum)
	accum := func(key string) *matchAccum {
		a, ok := accums[key]
		if !ok {
			a = &matchAccum{}
			accums[key] = a
		}
		return a
	}

	var allRoundStats []model.PlayerRoundStats
	for i := range raw.Rounds {
		round := &raw.Rounds[i]
		rn := round.RoundNumber
		if rn == 0 {
			rn = i // minimal exports omit header numbering
		}
		deltas := extractRound(round, rn)
		for j := range deltas {
			rs := &deltas[j]
			rs.MatchHash = raw.MatchHash
			accum(rs.Username).apply(rs)
		}
		allRoundStats = append(allRoundStats, deltas...)
	}

	// Carry headshot percentages over from the match scoreboard. Players that
	// only ever appear there still get an accumulator entry.
	hsPct := make(map[string]float64, len(raw.MatchStats))
	for i := range raw.MatchStats {
		st := &raw.MatchStats[i]
		if st.Username == "" {
			continue
		}
		key := playerKey(st.Username)
		hsPct[key] = st.HeadshotPercentage
		accum(key)
	}

	matchStats := make([]model.PlayerMatchStats, 0, len(accums))
	for key, acc := range accums {
		matchStats = append(matchStats, model.PlayerMatchStats{
			MatchHash:         raw.MatchHash,
			Username:          key,
			Kills:             acc.kills,
			Deaths:            acc.deaths,
			RoundsPlayed:      acc.roundsPlayed,
			Multikills:        acc.multikills,
			OpeningPicks:      acc.openingPicks,
			OpeningDeaths:     acc.openingDeaths,
			Clutches:          acc.clutches,
			TradeDifferential: acc.tradeDiff,
			KOSTRounds:        acc.kostRounds,
			RoundsSurvived:    acc.roundsSurvived,
			HeadshotPct:       hsPct[key],
		})
	}

	// Sort by kills desc for stable output.
	sort.Slice(matchStats, func(i, j int) bool {
		if matchStats[i].Kills != matchStats[j].Kills {
			return matchStats[i].Kills > matchStats[j].Kills
		}
		return matchStats[i].Username < matchStats[j].Username
	})

	return matchStats, allRoundStats, nil
}

// playerKey canonicalizes a raw username. Usernames are opaque exact-match
// tokens here: the exporter already emits canonical profile names, and case
// folding or trimming would merge distinct players. Identity mapping.
func playerKey(username string) string {
	return username
}

// matchAccum folds one player's round rows into match-level counters.
type matchAccum struct {
	kills, deaths               int
	roundsPlayed                int
	multikills                  int
	openingPicks, openingDeaths int
	clutches                    int
	tradeDiff                   int
	kostRounds, roundsSurvived  int
}

// apply adds one round row. Event-derived counters accrue for every
// participant; denominator counters only for players on the round scoreboard.
func (a *matchAccum) apply(rs *model.PlayerRoundStats) {
	a.tradeDiff += rs.TradeDelta
	if rs.OpeningPick {
		a.openingPicks++
	}
	if rs.OpeningDeath {
		a.openingDeaths++
	}
	if !rs.Played {
		return
	}
	a.roundsPlayed++
	a.kills += rs.Kills
	a.deaths += rs.Deaths
	if rs.Multikill {
		a.multikills++
	}
	if rs.Clutch {
		a.clutches++
	}
	if rs.KOSTEarned {
		a.kostRounds++
	}
	if rs.Survived {
		a.roundsSurvived++
	}
}

// killEvent is one kill feedback entry annotated with its zero-based position
// among the round's kill events.
type killEvent struct {
	pos    int
	actor  string
	target string
}

// killTimeline filters a round's feedback sequence down to kill events,
// preserving emission order. Order is the only "first kill" signal; no
// timestamp is consulted. Entries with neither actor nor target are dropped,
// everything else stays, duplicates included.
func killTimeline(round *model.RawRound) []killEvent {
	var kills []killEvent
	for i := range round.Feedback {
		ev := &round.Feedback[i]
		if !ev.IsKill() {
			continue
		}
		if ev.Username == "" && ev.Target == "" {
			continue
		}
		kills = append(kills, killEvent{
			pos:    len(kills),
			actor:  playerKey(ev.Username),
			target: playerKey(ev.Target),
		})
	}
	return kills
}

// extractRound computes every per-round delta in one traversal: scoreboard
// counters, opening pick/death, trade differential, traded deaths, clutch
// and KOST qualification.
func extractRound(round *model.RawRound, rn int) []model.PlayerRoundStats {
	kills := killTimeline(round)

	rows := make(map[string]*model.PlayerRoundStats)
	var order []string
	row := func(key string) *model.PlayerRoundStats {
		rs, ok := rows[key]
		if !ok {
			rs = &model.PlayerRoundStats{Username: key, RoundNumber: rn}
			rows[key] = rs
			order = append(order, key)
		}
		return rs
	}

	// Scoreboard snapshots define who played the round.
	for i := range round.Stats {
		st := &round.Stats[i]
		if st.Username == "" {
			continue
		}
		rs := row(playerKey(st.Username))
		rs.Played = true
		rs.Kills = st.Kills
		rs.Deaths = st.Deaths
		rs.Survived = st.Survived()
		rs.Multikill = st.Kills >= 2
	}

	// Trade differential: +1 for the actor of every kill, -1 for its target.
	// No trade window is modeled; a death always counts as traded against.
	for _, k := range kills {
		if k.actor != "" {
			row(k.actor).TradeDelta++
		}
		if k.target != "" {
			row(k.target).TradeDelta--
		}
	}

	// Opening pick and death come from the first kill event, attributed
	// sides only. Rounds without kill events contribute nothing.
	if len(kills) > 0 {
		first := kills[0]
		if first.actor != "" {
			row(first.actor).OpeningPick = true
		}
		if first.target != "" {
			row(first.target).OpeningDeath = true
		}
	}

	// A death is traded when a later kill in the same round takes down the
	// killer. The roster, when present, restricts the avenger to a teammate
	// of the victim; without one any avenger counts.
	sides := roundSides(round)
	for _, k := range kills {
		if k.actor == "" || k.target == "" {
			continue
		}
		for _, later := range kills[k.pos+1:] {
			if later.target != k.actor {
				continue
			}
			if sides != nil {
				avSide, okA := sides[later.actor]
				vicSide, okV := sides[k.target]
				if okA && okV && avSide != vicSide {
					continue
				}
			}
			row(k.target).WasTraded = true
			break
		}
	}

	if holder := clutchHolder(round, kills); holder != "" {
		row(holder).Clutch = true
	}

	// KOST is judged only for scoreboard players so the qualifying count and
	// the rounds-played denominator move together.
	for _, key := range order {
		rs := rows[key]
		if !rs.Played {
			continue
		}
		rs.KOSTEarned = rs.Kills >= 1 || objectivePlayed(round, key) || rs.Survived || rs.WasTraded
	}

	out := make([]model.PlayerRoundStats, 0, len(order))
	for _, key := range order {
		out = append(out, *rows[key])
	}
	return out
}

// objectivePlayed reports objective participation for the KOST "O" leg. The
// export carries no plant/defuse attribution, so this stays false until an
// explicit objective flag exists in the input.
func objectivePlayed(round *model.RawRound, key string) bool {
	return false
}

// roundSides maps usernames to their teamIndex from the round roster, or nil
// when the export omits the roster.
func roundSides(round *model.RawRound) map[string]int {
	if len(round.Players) == 0 {
		return nil
	}
	sides := make(map[string]int, len(round.Players))
	for _, p := range round.Players {
		if p.Username == "" {
			continue
		}
		sides[playerKey(p.Username)] = p.TeamIndex
	}
	return sides
}

// clutchHolder returns the username credited with a clutch, or "" when none
// can be determined: the holder must be the only member of their side still
// alive at round end and must have at least two scoreboard kills. Rounds
// without a roster or without kill events award nothing; so does any state
// with zero or several candidates. Fails closed, never double-awards.
func clutchHolder(round *model.RawRound, kills []killEvent) string {
	if len(kills) == 0 || len(round.Players) == 0 {
		return ""
	}

	killed := make(map[string]bool, len(kills))
	for _, k := range kills {
		if k.target != "" {
			killed[k.target] = true
		}
	}
	statsByKey := make(map[string]*model.RoundPlayerStat, len(round.Stats))
	for i := range round.Stats {
		st := &round.Stats[i]
		statsByKey[playerKey(st.Username)] = st
	}

	aliveBySide := make(map[int][]string)
	for _, p := range round.Players {
		key := playerKey(p.Username)
		if key == "" {
			continue
		}
		if aliveAtEnd(key, statsByKey, killed) {
			aliveBySide[p.TeamIndex] = append(aliveBySide[p.TeamIndex], key)
		}
	}

	var candidates []string
	for _, alive := range aliveBySide {
		if len(alive) != 1 {
			continue
		}
		key := alive[0]
		if st, ok := statsByKey[key]; ok && st.Kills >= 2 {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return ""
}

// aliveAtEnd reports whether a roster player finished the round alive. The
// explicit died flag wins when the scoreboard carries one; otherwise a player
// is alive iff no kill event targeted them, with the scoreboard death count
// as the last resort for players absent from the feed.
func aliveAtEnd(key string, stats map[string]*model.RoundPlayerStat, killed map[string]bool) bool {
	if st, ok := stats[key]; ok {
		if st.Died != nil {
			return !*st.Died
		}
		if killed[key] {
			return false
		}
		return st.Deaths == 0
	}
	return !killed[key]
}
