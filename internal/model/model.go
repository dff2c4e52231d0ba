package model

// Label is the {"name": ...} object the replay exporter uses for enumerated
// fields such as map, gamemode and feedback type.
type Label struct {
	Name string `json:"name"`
}

// ---- Raw replay data decoded by the parser ----

// FeedbackEvent is one entry of a round's matchFeedback sequence. Slice order
// is emission order; it is the only temporal signal used here (timeInSeconds
// counts down and resets on defuser plants, so it cannot order events).
type FeedbackEvent struct {
	Type          Label   `json:"type"`
	Username      string  `json:"username"`
	Target        string  `json:"target,omitempty"`
	Headshot      *bool   `json:"headshot,omitempty"`
	TimeInSeconds float64 `json:"timeInSeconds,omitempty"`
}

// IsKill reports whether the event is a kill feedback entry. Only kill events
// carry actor/target semantics.
func (e *FeedbackEvent) IsKill() bool {
	return e.Type.Name == "Kill"
}

// RoundPlayer is one roster entry from a round header.
type RoundPlayer struct {
	Username  string `json:"username"`
	TeamIndex int    `json:"teamIndex"`
}

type TeamInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Won   bool   `json:"won"`
	Role  string `json:"role"`
}

// RoundPlayerStat is the per-round scoreboard snapshot for one player.
// Newer exports carry an explicit died flag; older ones only a death count.
type RoundPlayerStat struct {
	Username           string  `json:"username"`
	Rounds             int     `json:"rounds,omitempty"`
	Kills              int     `json:"kills"`
	Deaths             int     `json:"deaths,omitempty"`
	Died               *bool   `json:"died,omitempty"`
	Assists            int     `json:"assists,omitempty"`
	Headshots          int     `json:"headshots,omitempty"`
	HeadshotPercentage float64 `json:"headshotPercentage,omitempty"`
}

// Survived reports whether the player ended the round alive.
func (s *RoundPlayerStat) Survived() bool {
	if s.Died != nil {
		return !*s.Died
	}
	return s.Deaths == 0
}

// MatchPlayerStat is the match-aggregate scoreboard line for one player,
// same shape as the per-round snapshot.
type MatchPlayerStat struct {
	Username           string  `json:"username"`
	Rounds             int     `json:"rounds"`
	Kills              int     `json:"kills"`
	Deaths             int     `json:"deaths"`
	Assists            int     `json:"assists,omitempty"`
	Headshots          int     `json:"headshots,omitempty"`
	HeadshotPercentage float64 `json:"headshotPercentage"`
}

// RawRound is one round of a match export. Feedback order is load-bearing:
// the first kill entry defines the opening pick. Header fields (matchID, map,
// teams, players) repeat per round and may be absent from minimal exports.
type RawRound struct {
	RoundNumber int               `json:"roundNumber"`
	MatchID     string            `json:"matchID,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	Map         Label             `json:"map,omitempty"`
	GameMode    Label             `json:"gamemode,omitempty"`
	Site        string            `json:"site,omitempty"`
	Teams       []TeamInfo        `json:"teams,omitempty"`
	Players     []RoundPlayer     `json:"players,omitempty"`
	Feedback    []FeedbackEvent   `json:"matchFeedback"`
	Stats       []RoundPlayerStat `json:"stats"`
}

// RawMatch is a fully decoded match export plus file-level metadata filled in
// by the parser. Immutable once returned; the aggregator never mutates it.
type RawMatch struct {
	MatchHash  string
	SourcePath string
	MatchID    string
	MapName    string
	MatchDate  string
	GameMode   string
	Teams      []TeamInfo
	Rounds     []RawRound
	MatchStats []MatchPlayerStat
}

// ---- Aggregated metrics ----

// PlayerMatchStats holds one player's accumulated counters for a single
// match. Entries are created lazily on first encounter of a username and
// never removed; ratio methods guard zero denominators.
type PlayerMatchStats struct {
	MatchHash string
	MapName   string // populated when queried across matches (JOIN with matches table)
	MatchDate string // likewise
	Username  string

	Kills        int
	Deaths       int
	RoundsPlayed int

	Multikills    int
	OpeningPicks  int
	OpeningDeaths int
	Clutches      int

	TradeDifferential int
	KOSTRounds        int
	RoundsSurvived    int

	HeadshotPct float64
}

func (s *PlayerMatchStats) KPR() float64 {
	if s.RoundsPlayed == 0 {
		return 0
	}
	return float64(s.Kills) / float64(s.RoundsPlayed)
}

func (s *PlayerMatchStats) KDRatio() float64 {
	if s.Deaths == 0 {
		return float64(s.Kills)
	}
	return float64(s.Kills) / float64(s.Deaths)
}

func (s *PlayerMatchStats) KOSTPct() float64 {
	if s.RoundsPlayed == 0 {
		return 0
	}
	return float64(s.KOSTRounds) / float64(s.RoundsPlayed) * 100
}

func (s *PlayerMatchStats) SurvivalPct() float64 {
	if s.RoundsPlayed == 0 {
		return 0
	}
	return float64(s.RoundsSurvived) / float64(s.RoundsPlayed) * 100
}

// PlayerRoundStats is one player's extracted contribution for one round.
// All fields are additive deltas folded into PlayerMatchStats; Played marks
// presence in the round's scoreboard (event-only participants accrue the
// event-derived fields but no denominator counters).
type PlayerRoundStats struct {
	MatchHash   string
	Username    string
	RoundNumber int

	Played bool

	Kills      int
	Deaths     int
	TradeDelta int

	Survived     bool
	OpeningPick  bool
	OpeningDeath bool
	Multikill    bool
	Clutch       bool
	WasTraded    bool
	KOSTEarned   bool
}

// PlayerReport is the final per-player record combining accumulated counters
// with the simple ratio metrics. Teamkills is always 0: kill feedback carries
// no team attribution, so the field is a schema placeholder.
type PlayerReport struct {
	Username          string  `json:"username"`
	KPR               float64 `json:"kpr"`
	Teamkills         int     `json:"teamkills"`
	Multikills        int     `json:"multikills"`
	OpeningPicks      int     `json:"openingPicks"`
	OpeningDeaths     int     `json:"openingDeaths"`
	Clutches          int     `json:"clutches"`
	KOSTPct           float64 `json:"kostPercent"`
	SurvivalRatePct   float64 `json:"survivalRatePercent"`
	TradeDifferential int     `json:"tradeDifferential"`
	HeadshotRatePct   float64 `json:"headshotRatePercent"`
}

// PlayerAggregate holds stats for a single player aggregated across all
// stored matches.
type PlayerAggregate struct {
	Username string
	Matches  int

	Kills        int
	Deaths       int
	RoundsPlayed int

	Multikills    int
	OpeningPicks  int
	OpeningDeaths int
	Clutches      int

	TradeDifferential int
	KOSTRounds        int
	RoundsSurvived    int
}

func (a *PlayerAggregate) KPR() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.Kills) / float64(a.RoundsPlayed)
}

func (a *PlayerAggregate) KDRatio() float64 {
	if a.Deaths == 0 {
		return float64(a.Kills)
	}
	return float64(a.Kills) / float64(a.Deaths)
}

func (a *PlayerAggregate) KOSTPct() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.KOSTRounds) / float64(a.RoundsPlayed) * 100
}

func (a *PlayerAggregate) SurvivalPct() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.RoundsSurvived) / float64(a.RoundsPlayed) * 100
}

// PlayerMapAggregate groups one player's cross-match totals by map.
type PlayerMapAggregate struct {
	Username string
	MapName  string
	Matches  int

	Kills        int
	Deaths       int
	RoundsPlayed int

	OpeningPicks  int
	OpeningDeaths int
	Clutches      int

	TradeDifferential int
	KOSTRounds        int
	RoundsSurvived    int
}

func (a *PlayerMapAggregate) KPR() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.Kills) / float64(a.RoundsPlayed)
}

func (a *PlayerMapAggregate) KDRatio() float64 {
	if a.Deaths == 0 {
		return float64(a.Kills)
	}
	return float64(a.Kills) / float64(a.Deaths)
}

func (a *PlayerMapAggregate) KOSTPct() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.KOSTRounds) / float64(a.RoundsPlayed) * 100
}

func (a *PlayerMapAggregate) SurvivalPct() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.RoundsSurvived) / float64(a.RoundsPlayed) * 100
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchHash  string
	MatchID    string
	MapName    string
	MatchDate  string
	GameMode   string
	TeamAName  string
	TeamAScore int
	TeamBName  string
	TeamBScore int
}
