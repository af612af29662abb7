package usecase

import (
	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/domain/player"
	"github.com/hafizln/matchprobe/internal/domain/playerstats"
)

const fullMatchMinutes = 90

// AggregateStats derives one player's summary from a match snapshot by
// layered sourcing: rating-row fields first, then event-list counting for
// whatever the row left open, then minutes inference from lineup containers.
// Later layers never overwrite a value an earlier layer produced.
func AggregateStats(data match.Data, query player.Query) playerstats.Aggregate {
	var (
		goals        *int
		penaltyGoals *int
		assists      *int
		yellowCards  *int
		redCards     *int
		minutes      *int
	)

	// Layer A: direct rating-row fields.
	if row, ok := findRatingRow(data.Ratings, query); ok {
		goals = row.Goals
		penaltyGoals = row.PenaltyGoals
		assists = row.Assists
		yellowCards = row.YellowCards
		redCards = row.RedCards
		minutes = row.Minutes
	}

	// Layer B: derive the still-open counters from the event lists.
	if goals == nil || penaltyGoals == nil || assists == nil {
		derivedGoals, derivedPens, derivedAssists := countGoalEvents(data.GoalEvents, query)
		if goals == nil {
			goals = &derivedGoals
		}
		if penaltyGoals == nil {
			penaltyGoals = &derivedPens
		}
		if assists == nil {
			assists = &derivedAssists
		}
	}
	if yellowCards == nil || redCards == nil {
		derivedYellows, derivedReds := countCardEvents(data.CardEvents, query)
		if yellowCards == nil {
			yellowCards = &derivedYellows
		}
		if redCards == nil {
			redCards = &derivedReds
		}
	}

	// Layer C: minutes inference from lineup containers.
	if minutes == nil {
		minutes = inferMinutes(data.Lineups, query)
	}

	agg := playerstats.Aggregate{
		Goals:           valueOrZero(goals),
		PenaltyGoals:    valueOrZero(penaltyGoals),
		Assists:         valueOrZero(assists),
		YellowCards:     valueOrZero(yellowCards),
		RedCards:        valueOrZero(redCards),
		MinutesPlayed:   minutes,
		FullMatchPlayed: minutes != nil && *minutes >= fullMatchMinutes,
	}
	agg.NonPenaltyGoals = agg.Goals - agg.PenaltyGoals
	if agg.NonPenaltyGoals < 0 {
		agg.NonPenaltyGoals = 0
	}

	agg.IsPlayerOfMatch, agg.POTMDerived = playerOfTheMatch(data, query)
	return agg
}

func findRatingRow(rows []match.RatingRow, query player.Query) (match.RatingRow, bool) {
	for _, row := range rows {
		if player.Matches(query, row.ID, row.Name) {
			return row, true
		}
	}
	return match.RatingRow{}, false
}

// countGoalEvents excludes own goals from the personal tally; penalties are a
// subset of goals.
func countGoalEvents(events []match.GoalEvent, query player.Query) (goals, penalties, assists int) {
	for _, ev := range events {
		if !ev.IsOwnGoal && player.Matches(query, ev.ScorerID, ev.ScorerName) {
			goals++
			if ev.IsPenalty {
				penalties++
			}
		}
		if player.Matches(query, ev.AssistID, ev.AssistName) {
			assists++
		}
	}
	return goals, penalties, assists
}

// countCardEvents splits a second yellow into one yellow and one red.
func countCardEvents(events []match.CardEvent, query player.Query) (yellows, reds int) {
	for _, ev := range events {
		if !player.Matches(query, ev.PlayerID, ev.PlayerName) {
			continue
		}
		switch ev.Kind {
		case match.CardYellow:
			yellows++
		case match.CardSecondYellow:
			yellows++
			reds++
		case match.CardRed:
			reds++
		}
	}
	return yellows, reds
}

// inferMinutes reads a lineup row for the player. A starter with no
// substitution-out marker played the full match; a recorded out-minute is the
// minute count. A player without a starting marker stays unknown, not zero.
func inferMinutes(lineups []match.LineupEntry, query player.Query) *int {
	for _, entry := range lineups {
		if !player.Matches(query, entry.PlayerID, entry.PlayerName) {
			continue
		}
		if entry.Starter {
			if entry.SubbedOutMinute != nil {
				out := *entry.SubbedOutMinute
				return &out
			}
			full := fullMatchMinutes
			return &full
		}
		if entry.SubbedInMinute != nil && entry.SubbedOutMinute != nil {
			played := *entry.SubbedOutMinute - *entry.SubbedInMinute
			if played >= 0 {
				return &played
			}
		}
		return nil
	}
	return nil
}

// playerOfTheMatch prefers the explicit provider field; without one it falls
// back to the best-rated row and reports that the answer was derived. Rating
// ties break on the lowest player id, then name, so repeated runs agree.
func playerOfTheMatch(data match.Data, query player.Query) (isPOTM, derived bool) {
	if data.PlayerOfTheMatch != nil {
		return player.Matches(query, data.PlayerOfTheMatch.ID, data.PlayerOfTheMatch.Name), false
	}

	best, ok := bestRatedRow(data.Ratings)
	if !ok {
		return false, false
	}
	return player.Matches(query, best.ID, best.Name), true
}

func bestRatedRow(rows []match.RatingRow) (match.RatingRow, bool) {
	var (
		best  match.RatingRow
		found bool
	)
	for _, row := range rows {
		if !found || row.Rating > best.Rating {
			best, found = row, true
			continue
		}
		if row.Rating == best.Rating && ratingRowBefore(row, best) {
			best = row
		}
	}
	return best, found
}

func ratingRowBefore(a, b match.RatingRow) bool {
	switch {
	case a.ID != nil && b.ID != nil:
		return *a.ID < *b.ID
	case a.ID != nil:
		return true
	case b.ID != nil:
		return false
	default:
		return a.Name < b.Name
	}
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
