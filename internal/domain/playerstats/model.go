package playerstats

// Aggregate is the per-player summary derived from one match snapshot. It is
// recomputed on every request and never persisted.
type Aggregate struct {
	Goals           int
	PenaltyGoals    int
	NonPenaltyGoals int
	Assists         int
	YellowCards     int
	RedCards        int

	// MinutesPlayed stays nil when no source revealed it; FullMatchPlayed is
	// the conservative projection of that (unknown minutes count as false).
	MinutesPlayed   *int
	FullMatchPlayed bool

	IsPlayerOfMatch bool
	// POTMDerived marks that player-of-the-match came from the max-rating
	// fallback rather than an explicit provider field.
	POTMDerived bool
}
