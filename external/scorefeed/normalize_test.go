package scorefeed

import (
	"testing"
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/platform/rawtree"
)

const sampleDetailsPayload = `{
	"general": {
		"matchId": 4193456,
		"primaryTournamentId": 47,
		"primaryTournamentName": "Premier League",
		"matchTimeUTC": "2025-08-16 16:30:00",
		"matchName": "Arsenal vs Chelsea"
	},
	"content": {
		"matchFacts": {
			"playerOfTheMatch": {"id": 1077894, "name": {"fullName": "Declan Rice"}},
			"events": [
				{"type": "Goal", "player": {"id": 1077894, "name": "Declan Rice"}, "assistStr": "Bukayo Saka", "assistPlayerId": 961995},
				{"type": "Goal", "isPenalty": true, "player": {"id": 961995, "name": "Bukayo Saka"}},
				{"type": "Goal", "isOwnGoal": true, "player": {"id": 555001, "name": "Marc Cucurella"}},
				{"type": "Card", "card": "Yellow", "player": {"id": 737066, "name": "Moises Caicedo"}},
				{"type": "Card", "card": "YellowRed", "player": {"id": 820132, "name": "Nicolas Jackson"}}
			]
		},
		"playerStats": [
			{"id": 1077894, "name": "Declan Rice", "rating": 8.9, "stats": {"goals": 1, "minutesPlayed": 90}},
			{"id": 961995, "name": "Bukayo Saka", "rating": 8.4, "stats": {"goals": 1, "penaltiesScored": 1, "goalAssist": 1, "minutesPlayed": 78}},
			{"id": 1077894, "name": "Declan Rice", "rating": 4.0}
		],
		"lineup": {
			"homeTeam": {
				"starters": [
					{"id": 1077894, "name": "Declan Rice", "isStarter": true},
					{"id": 961995, "name": "Bukayo Saka", "isStarter": true, "timeSubbedOff": 78}
				],
				"bench": [
					{"id": 614100, "name": "Leandro Trossard", "isStarter": false, "timeSubbedOn": 78}
				]
			}
		}
	}
}`

func decodeSample(t *testing.T, payload string) rawtree.Value {
	t.Helper()
	root, err := rawtree.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode sample payload: %v", err)
	}
	return root
}

func TestNormalizeGraphHeaderFields(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if data.LeagueID == nil || *data.LeagueID != 47 {
		t.Fatalf("unexpected league id: %v", data.LeagueID)
	}
	if data.LeagueName != "Premier League" {
		t.Fatalf("unexpected league name: %q", data.LeagueName)
	}
	if data.Title != "Arsenal vs Chelsea" {
		t.Fatalf("unexpected title: %q", data.Title)
	}

	want := time.Date(2025, 8, 16, 16, 30, 0, 0, time.UTC)
	if data.KickoffUTC == nil || !data.KickoffUTC.Equal(want) {
		t.Fatalf("unexpected kickoff: %v", data.KickoffUTC)
	}
}

func TestNormalizeGraphPlayerOfTheMatch(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if data.PlayerOfTheMatch == nil {
		t.Fatal("expected player of the match")
	}
	if data.PlayerOfTheMatch.ID == nil || *data.PlayerOfTheMatch.ID != 1077894 {
		t.Fatalf("unexpected potm id: %v", data.PlayerOfTheMatch.ID)
	}
	if data.PlayerOfTheMatch.Name != "Declan Rice" {
		t.Fatalf("unexpected potm name: %q", data.PlayerOfTheMatch.Name)
	}
}

func TestNormalizeGraphGoalClassification(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if len(data.GoalEvents) != 3 {
		t.Fatalf("expected 3 goals, got %d", len(data.GoalEvents))
	}

	var penalties, ownGoals, assists int
	for _, goal := range data.GoalEvents {
		if goal.IsPenalty {
			penalties++
		}
		if goal.IsOwnGoal {
			ownGoals++
		}
		if goal.AssistID != nil || goal.AssistName != "" {
			assists++
		}
	}
	if penalties != 1 {
		t.Fatalf("expected 1 penalty, got %d", penalties)
	}
	if ownGoals != 1 {
		t.Fatalf("expected 1 own goal, got %d", ownGoals)
	}
	if assists != 1 {
		t.Fatalf("expected 1 assisted goal, got %d", assists)
	}
}

func TestNormalizeGraphCardClassification(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if len(data.CardEvents) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(data.CardEvents))
	}

	kinds := map[match.CardKind]int{}
	for _, card := range data.CardEvents {
		kinds[card.Kind]++
	}
	if kinds[match.CardYellow] != 1 || kinds[match.CardSecondYellow] != 1 {
		t.Fatalf("unexpected card kinds: %v", kinds)
	}
}

func TestNormalizeGraphRatingsDeduplicated(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if len(data.Ratings) != 2 {
		t.Fatalf("expected 2 deduplicated rating rows, got %d", len(data.Ratings))
	}

	var rice *match.RatingRow
	for i := range data.Ratings {
		if data.Ratings[i].ID != nil && *data.Ratings[i].ID == 1077894 {
			rice = &data.Ratings[i]
		}
	}
	if rice == nil {
		t.Fatal("expected a rating row for player 1077894")
	}
	if rice.Rating != 8.9 {
		t.Fatalf("duplicate row should keep first occurrence, got rating %v", rice.Rating)
	}
	if rice.Goals == nil || *rice.Goals != 1 {
		t.Fatalf("unexpected goals from nested stats: %v", rice.Goals)
	}
	if rice.Minutes == nil || *rice.Minutes != 90 {
		t.Fatalf("unexpected minutes from nested stats: %v", rice.Minutes)
	}
}

func TestNormalizeGraphLineups(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(4193456, decodeSample(t, sampleDetailsPayload))

	if len(data.Lineups) != 3 {
		t.Fatalf("expected 3 lineup entries, got %d", len(data.Lineups))
	}

	byID := map[int64]match.LineupEntry{}
	for _, entry := range data.Lineups {
		if entry.PlayerID != nil {
			byID[*entry.PlayerID] = entry
		}
	}

	saka := byID[961995]
	if !saka.Starter || saka.SubbedOutMinute == nil || *saka.SubbedOutMinute != 78 {
		t.Fatalf("unexpected saka lineup entry: %+v", saka)
	}
	trossard := byID[614100]
	if trossard.Starter || trossard.SubbedInMinute == nil || *trossard.SubbedInMinute != 78 {
		t.Fatalf("unexpected trossard lineup entry: %+v", trossard)
	}
	rice := byID[1077894]
	if !rice.Starter || rice.SubbedOutMinute != nil {
		t.Fatalf("unexpected rice lineup entry: %+v", rice)
	}
}

func TestNormalizeGraphEmptyPayload(t *testing.T) {
	t.Parallel()

	data := normalizeGraph(99, decodeSample(t, `{"general":{"note":"nothing here"}}`))
	if data.HasContent() {
		t.Fatalf("expected empty snapshot, got %+v", data)
	}
}
