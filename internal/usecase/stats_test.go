package usecase

import (
	"reflect"
	"testing"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/domain/player"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func queryByID(id int64) player.Query { return player.Query{ID: int64Ptr(id)} }

func TestAggregateStatsSecondYellowCountsBothHalves(t *testing.T) {
	t.Parallel()

	data := match.Data{
		CardEvents: []match.CardEvent{
			{PlayerID: int64Ptr(10), PlayerName: "A", Kind: match.CardSecondYellow},
		},
	}

	agg := AggregateStats(data, queryByID(10))
	if agg.YellowCards != 1 || agg.RedCards != 1 {
		t.Fatalf("second yellow must count one yellow and one red, got yellow=%d red=%d", agg.YellowCards, agg.RedCards)
	}
}

func TestAggregateStatsOwnGoalExcludedFromTally(t *testing.T) {
	t.Parallel()

	data := match.Data{
		GoalEvents: []match.GoalEvent{
			{ScorerID: int64Ptr(10), ScorerName: "A", IsOwnGoal: true},
			{ScorerID: int64Ptr(10), ScorerName: "A"},
		},
	}

	agg := AggregateStats(data, queryByID(10))
	if agg.Goals != 1 {
		t.Fatalf("own goal must not count, got %d goals", agg.Goals)
	}
}

func TestAggregateStatsPenaltySubset(t *testing.T) {
	t.Parallel()

	data := match.Data{
		GoalEvents: []match.GoalEvent{
			{ScorerID: int64Ptr(10)},
			{ScorerID: int64Ptr(10), IsPenalty: true},
			{ScorerID: int64Ptr(11), AssistID: int64Ptr(10)},
		},
	}

	agg := AggregateStats(data, queryByID(10))
	if agg.Goals != 2 || agg.PenaltyGoals != 1 || agg.NonPenaltyGoals != 1 {
		t.Fatalf("unexpected goal split: %+v", agg)
	}
	if agg.Assists != 1 {
		t.Fatalf("expected 1 assist, got %d", agg.Assists)
	}
}

func TestAggregateStatsRatingRowWinsOverEvents(t *testing.T) {
	t.Parallel()

	// The rating row claims 3 goals while the event list carries only one.
	// The row sourced the value first, so the event derivation must not
	// overwrite it.
	data := match.Data{
		Ratings: []match.RatingRow{
			{ID: int64Ptr(10), Name: "A", Rating: 8.0, Goals: intPtr(3)},
		},
		GoalEvents: []match.GoalEvent{
			{ScorerID: int64Ptr(10)},
		},
	}

	agg := AggregateStats(data, queryByID(10))
	if agg.Goals != 3 {
		t.Fatalf("rating-row goals must win, got %d", agg.Goals)
	}
	// Assists were left open by the row, so the event layer fills them.
	if agg.Assists != 0 {
		t.Fatalf("unexpected assists: %d", agg.Assists)
	}
}

func TestAggregateStatsMinutesInference(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		entry       match.LineupEntry
		wantMinutes *int
		wantFull    bool
	}{
		{
			name:        "starter never withdrawn",
			entry:       match.LineupEntry{PlayerID: int64Ptr(10), Starter: true},
			wantMinutes: intPtr(90),
			wantFull:    true,
		},
		{
			name:        "starter subbed off early",
			entry:       match.LineupEntry{PlayerID: int64Ptr(10), Starter: true, SubbedOutMinute: intPtr(78)},
			wantMinutes: intPtr(78),
			wantFull:    false,
		},
		{
			name:        "starter withdrawn in added time",
			entry:       match.LineupEntry{PlayerID: int64Ptr(10), Starter: true, SubbedOutMinute: intPtr(93)},
			wantMinutes: intPtr(93),
			wantFull:    true,
		},
		{
			name:        "bench player without markers stays unknown",
			entry:       match.LineupEntry{PlayerID: int64Ptr(10)},
			wantMinutes: nil,
			wantFull:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			agg := AggregateStats(match.Data{Lineups: []match.LineupEntry{tc.entry}}, queryByID(10))
			switch {
			case tc.wantMinutes == nil && agg.MinutesPlayed != nil:
				t.Fatalf("expected unknown minutes, got %d", *agg.MinutesPlayed)
			case tc.wantMinutes != nil && (agg.MinutesPlayed == nil || *agg.MinutesPlayed != *tc.wantMinutes):
				t.Fatalf("unexpected minutes: %v", agg.MinutesPlayed)
			}
			if agg.FullMatchPlayed != tc.wantFull {
				t.Fatalf("unexpected fullMatchPlayed: %v", agg.FullMatchPlayed)
			}
		})
	}
}

func TestAggregateStatsUnknownMinutesNeverFullMatch(t *testing.T) {
	t.Parallel()

	agg := AggregateStats(match.Data{}, queryByID(10))
	if agg.MinutesPlayed != nil || agg.FullMatchPlayed {
		t.Fatalf("empty snapshot must not claim a full match: %+v", agg)
	}
}

func TestAggregateStatsExplicitPOTM(t *testing.T) {
	t.Parallel()

	data := match.Data{
		PlayerOfTheMatch: &match.PlayerRef{ID: int64Ptr(10), Name: "José"},
		Ratings: []match.RatingRow{
			{ID: int64Ptr(11), Name: "B", Rating: 9.9},
		},
	}

	agg := AggregateStats(data, player.Query{Name: "jose"})
	if !agg.IsPlayerOfMatch || agg.POTMDerived {
		t.Fatalf("explicit potm by normalized name must win: %+v", agg)
	}

	other := AggregateStats(data, queryByID(11))
	if other.IsPlayerOfMatch {
		t.Fatal("highest-rated row must not override an explicit potm field")
	}
}

func TestAggregateStatsDerivedPOTMFromRatings(t *testing.T) {
	t.Parallel()

	data := match.Data{
		Ratings: []match.RatingRow{
			{ID: int64Ptr(11), Name: "B", Rating: 7.1},
			{ID: int64Ptr(10), Name: "A", Rating: 8.8},
		},
	}

	agg := AggregateStats(data, queryByID(10))
	if !agg.IsPlayerOfMatch || !agg.POTMDerived {
		t.Fatalf("expected derived potm for the best-rated row: %+v", agg)
	}
}

func TestAggregateStatsDerivedPOTMTieBreaksOnLowestID(t *testing.T) {
	t.Parallel()

	data := match.Data{
		Ratings: []match.RatingRow{
			{ID: int64Ptr(20), Name: "B", Rating: 8.8},
			{ID: int64Ptr(10), Name: "A", Rating: 8.8},
		},
	}

	if agg := AggregateStats(data, queryByID(10)); !agg.IsPlayerOfMatch {
		t.Fatal("tie must break to the lowest player id")
	}
	if agg := AggregateStats(data, queryByID(20)); agg.IsPlayerOfMatch {
		t.Fatal("higher id must lose the tie")
	}
}

func TestAggregateStatsDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	data := match.Data{
		GoalEvents: []match.GoalEvent{
			{ScorerID: int64Ptr(10), IsPenalty: true},
			{ScorerID: int64Ptr(10)},
			{ScorerID: int64Ptr(11), AssistID: int64Ptr(10)},
		},
		CardEvents: []match.CardEvent{
			{PlayerID: int64Ptr(10), Kind: match.CardYellow},
		},
		Ratings: []match.RatingRow{
			{ID: int64Ptr(10), Name: "A", Rating: 8.2},
			{ID: int64Ptr(11), Name: "B", Rating: 7.0},
		},
		Lineups: []match.LineupEntry{
			{PlayerID: int64Ptr(10), Starter: true},
		},
	}

	first := AggregateStats(data, queryByID(10))
	for i := 0; i < 20; i++ {
		if next := AggregateStats(data, queryByID(10)); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, first, next)
		}
	}
}
