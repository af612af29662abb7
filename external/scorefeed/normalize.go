package scorefeed

import (
	"strconv"
	"strings"
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/platform/rawtree"
)

// Field rules. The provider relocates these fields between template versions,
// so every rule matches on key names or node shape anywhere in the graph.
var (
	leagueIDSuffixes   = []string{"leagueid", "tournamentid", "competitionid"}
	leagueNameSuffixes = []string{"leaguename", "tournamentname", "competitionname"}
	kickoffKeys        = []string{"matchtimeutc", "kickoffutc", "starttimeutc", "utctime", "kickoff"}
	titleKeys          = []string{"matchname", "pagetitle", "title"}
	potmKeys           = []string{"playerofthematch", "manofthematch", "potm"}
)

var (
	goalsAliases        = []string{"goals", "goalsScored", "goal"}
	penaltyGoalAliases  = []string{"penaltyGoals", "penaltiesScored", "penalties"}
	assistAliases       = []string{"assists", "goalAssist", "assist"}
	yellowCardAliases   = []string{"yellowCards", "yellowCard", "yellows"}
	redCardAliases      = []string{"redCards", "redCard", "reds"}
	minutesAliases      = []string{"minutesPlayed", "minsPlayed", "minutes", "mins"}
	ratingAliases       = []string{"rating", "playerRating"}
	subbedOffAliases    = []string{"timeSubbedOff", "subbedOutMinute", "minuteOff", "subbedOff"}
	subbedOnAliases     = []string{"timeSubbedOn", "subbedInMinute", "minuteOn", "subbedOn"}
	starterMarkerKeys   = []string{"isStarter", "starter", "firstEleven", "isFirstEleven"}
	lineupPresenceKeys  = append(append([]string{}, starterMarkerKeys...), subbedOffAliases...)
	kickoffParseLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"02.01.2006 15:04",
	}
)

// normalizeGraph assembles a MatchData snapshot from an arbitrarily shaped
// provider graph. Every lookup tolerates the field being absent entirely.
func normalizeGraph(matchID int64, root rawtree.Value) match.Data {
	data := match.Data{ID: match.ID(matchID)}

	if id, ok := findInt64BySuffix(root, leagueIDSuffixes); ok {
		data.LeagueID = &id
	}
	if name, ok := findStringBySuffix(root, leagueNameSuffixes); ok {
		data.LeagueName = name
	}
	if kickoff, ok := findKickoff(root); ok {
		data.KickoffUTC = &kickoff
	}
	if title, ok := findStringBySuffix(root, titleKeys); ok {
		data.Title = title
	}
	if potm, ok := findPlayerOfTheMatch(root); ok {
		data.PlayerOfTheMatch = &potm
	}

	data.Ratings = collectRatings(root)
	data.GoalEvents, data.CardEvents = collectEvents(root)
	data.Lineups = collectLineups(root)

	return data
}

func findInt64BySuffix(root rawtree.Value, suffixes []string) (int64, bool) {
	var found int64
	_, _, ok := rawtree.FindEntry(root, func(key string, v rawtree.Value) bool {
		if !rawtree.KeySuffixFold(key, suffixes...) {
			return false
		}
		id, isInt := v.Int64()
		if isInt && id > 0 {
			found = id
			return true
		}
		return false
	})
	return found, ok
}

func findStringBySuffix(root rawtree.Value, suffixes []string) (string, bool) {
	_, v, ok := rawtree.FindEntry(root, func(key string, v rawtree.Value) bool {
		if !rawtree.KeySuffixFold(key, suffixes...) {
			return false
		}
		s, isString := v.String()
		return isString && strings.TrimSpace(s) != ""
	})
	if !ok {
		return "", false
	}
	s, _ := v.String()
	return strings.TrimSpace(s), true
}

func findKickoff(root rawtree.Value) (time.Time, bool) {
	var found time.Time
	_, _, ok := rawtree.FindEntry(root, func(key string, v rawtree.Value) bool {
		if !rawtree.KeySuffixFold(key, kickoffKeys...) {
			return false
		}
		s, isString := v.String()
		if !isString {
			return false
		}
		parsed, parseOK := parseProviderTime(s)
		if parseOK {
			found = parsed
		}
		return parseOK
	})
	return found, ok
}

func parseProviderTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range kickoffParseLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// findPlayerOfTheMatch locates the first node carrying an explicit POTM field
// with a usable identifying subfield.
func findPlayerOfTheMatch(root rawtree.Value) (match.PlayerRef, bool) {
	var ref match.PlayerRef
	_, found := rawtree.FindNode(root, func(node rawtree.Value) bool {
		for _, key := range potmKeys {
			m, ok := node.Map()
			if !ok {
				return false
			}
			for actual := range m {
				if !rawtree.KeyFold(actual, key) {
					continue
				}
				candidate := playerRefFrom(node.Key(actual))
				if candidate.ID != nil || candidate.Name != "" {
					ref = candidate
					return true
				}
			}
		}
		return false
	})
	return ref, found
}

// playerRefFrom reads a player identity from either a flat node or one with a
// nested name object.
func playerRefFrom(v rawtree.Value) match.PlayerRef {
	ref := match.PlayerRef{}

	if id, ok := v.First("playerId", "id").Int64(); ok && id > 0 {
		ref.ID = &id
	}

	name := v.First("name", "playerName", "fullName")
	switch name.Kind() {
	case rawtree.KindString:
		ref.Name = name.Text()
	case rawtree.KindMap:
		if full := name.First("fullName", "name").Text(); full != "" {
			ref.Name = full
		} else {
			first := name.Key("firstName").Text()
			last := name.Key("lastName").Text()
			ref.Name = strings.TrimSpace(first + " " + last)
		}
	}
	return ref
}

// collectRatings gathers every rating-shaped table in the graph, wherever it
// nests. Rows are deduplicated on player identity; sorted-key traversal keeps
// the selection deterministic.
func collectRatings(root rawtree.Value) []match.RatingRow {
	var rows []match.RatingRow
	seen := map[string]struct{}{}

	rawtree.EachEntry(root, func(_ string, v rawtree.Value) bool {
		if !rawtree.SeqOfMaps(v) || !hasRatingMarker(v.Index(0)) {
			return false
		}
		seq, _ := v.Seq()
		for i := range seq {
			row, ok := parseRatingRow(v.Index(i))
			if !ok {
				continue
			}
			key := ratingRowKey(row)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			rows = append(rows, row)
		}
		return false
	})

	return rows
}

func hasRatingMarker(v rawtree.Value) bool {
	if !v.First(ratingAliases...).IsAbsent() {
		return true
	}
	return !v.Key("stats").First(ratingAliases...).IsAbsent()
}

func parseRatingRow(v rawtree.Value) (match.RatingRow, bool) {
	ref := playerRefFrom(v)

	rating, ok := v.First(ratingAliases...).Float64()
	if !ok {
		rating, ok = v.Key("stats").First(ratingAliases...).Float64()
	}
	if !ok || (ref.ID == nil && ref.Name == "") {
		return match.RatingRow{}, false
	}

	row := match.RatingRow{
		ID:           ref.ID,
		Name:         ref.Name,
		Rating:       rating,
		Goals:        intPtrFromAliases(v, goalsAliases),
		PenaltyGoals: intPtrFromAliases(v, penaltyGoalAliases),
		Assists:      intPtrFromAliases(v, assistAliases),
		YellowCards:  intPtrFromAliases(v, yellowCardAliases),
		RedCards:     intPtrFromAliases(v, redCardAliases),
		Minutes:      intPtrFromAliases(v, minutesAliases),
	}
	return row, true
}

// intPtrFromAliases tries each alias in priority order on the row, then on
// its nested stats object.
func intPtrFromAliases(v rawtree.Value, aliases []string) *int {
	for _, node := range []rawtree.Value{v, v.Key("stats")} {
		if raw, ok := node.First(aliases...).Int64(); ok {
			out := int(raw)
			return &out
		}
	}
	return nil
}

func ratingRowKey(row match.RatingRow) string {
	if row.ID != nil {
		return "id:" + strconv.FormatInt(*row.ID, 10)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(row.Name))
}

// collectEvents is the enrichment pass: it scans every array-valued field in
// every node and buckets entries into goal or card events by a permissive
// type/keyword classifier.
func collectEvents(root rawtree.Value) ([]match.GoalEvent, []match.CardEvent) {
	var goals []match.GoalEvent
	var cards []match.CardEvent

	rawtree.EachEntry(root, func(_ string, v rawtree.Value) bool {
		if !rawtree.SeqOfMaps(v) {
			return false
		}
		seq, _ := v.Seq()
		for i := range seq {
			item := v.Index(i)
			if goal, ok := classifyGoal(item); ok {
				goals = append(goals, goal)
				continue
			}
			if card, ok := classifyCard(item); ok {
				cards = append(cards, card)
			}
		}
		return false
	})

	return goals, cards
}

func eventTypeText(v rawtree.Value) string {
	parts := []string{
		v.First("type", "eventType", "event", "kind").Text(),
		v.First("subType", "subtype", "detail").Text(),
	}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

func classifyGoal(v rawtree.Value) (match.GoalEvent, bool) {
	typ := eventTypeText(v)

	isGoal := strings.Contains(typ, "goal") && !strings.Contains(typ, "goalkeeper")
	if !isGoal {
		if own, ok := v.First("isOwnGoal", "ownGoal").Bool(); ok && own {
			isGoal = true
		}
	}
	if !isGoal {
		return match.GoalEvent{}, false
	}

	scorer := playerRefFrom(v.First("player", "scorer"))
	if scorer.ID == nil && scorer.Name == "" {
		scorer = playerRefFrom(v)
	}
	if scorer.ID == nil && scorer.Name == "" {
		return match.GoalEvent{}, false
	}

	goal := match.GoalEvent{
		ScorerID:   scorer.ID,
		ScorerName: scorer.Name,
	}

	assist := playerRefFrom(v.First("assist", "assistPlayer"))
	if assist.ID == nil {
		if id, ok := v.First("assistId", "assistPlayerId").Int64(); ok && id > 0 {
			assist.ID = &id
		}
	}
	if assist.Name == "" {
		assist.Name = v.First("assistName", "assistStr").Text()
	}
	goal.AssistID = assist.ID
	goal.AssistName = assist.Name

	if pen, ok := v.First("isPenalty", "penalty").Bool(); ok {
		goal.IsPenalty = pen
	} else if strings.Contains(typ, "pen") && !strings.Contains(typ, "shootout") {
		goal.IsPenalty = true
	}

	if own, ok := v.First("isOwnGoal", "ownGoal").Bool(); ok {
		goal.IsOwnGoal = own
	} else if strings.Contains(typ, "own") {
		goal.IsOwnGoal = true
	}

	return goal, true
}

func classifyCard(v rawtree.Value) (match.CardEvent, bool) {
	typ := eventTypeText(v)
	cardText := strings.ToLower(v.First("card", "cardType").Text())
	combined := strings.TrimSpace(typ + " " + cardText)

	if !strings.Contains(combined, "card") && cardText == "" {
		return match.CardEvent{}, false
	}

	ref := playerRefFrom(v.First("player"))
	if ref.ID == nil && ref.Name == "" {
		ref = playerRefFrom(v)
	}
	if ref.ID == nil && ref.Name == "" {
		return match.CardEvent{}, false
	}

	var kind match.CardKind
	switch {
	case strings.Contains(combined, "second") || strings.Contains(combined, "yellowred"):
		kind = match.CardSecondYellow
	case strings.Contains(combined, "red"):
		kind = match.CardRed
	case strings.Contains(combined, "yellow"):
		kind = match.CardYellow
	default:
		return match.CardEvent{}, false
	}

	return match.CardEvent{PlayerID: ref.ID, PlayerName: ref.Name, Kind: kind}, true
}

// collectLineups snapshots every node carrying starter or substitution
// markers, wherever the lineup container sits.
func collectLineups(root rawtree.Value) []match.LineupEntry {
	var entries []match.LineupEntry
	seen := map[string]struct{}{}

	rawtree.EachEntry(root, func(_ string, v rawtree.Value) bool {
		if v.Kind() != rawtree.KindMap {
			return false
		}
		if v.First(lineupPresenceKeys...).IsAbsent() {
			return false
		}

		ref := playerRefFrom(v)
		if ref.ID == nil && ref.Name == "" {
			return false
		}

		entry := match.LineupEntry{PlayerID: ref.ID, PlayerName: ref.Name}
		if starter, ok := v.First(starterMarkerKeys...).Bool(); ok {
			entry.Starter = starter
		}
		if minute, ok := v.First(subbedOffAliases...).Int64(); ok {
			out := int(minute)
			entry.SubbedOutMinute = &out
		}
		if minute, ok := v.First(subbedOnAliases...).Int64(); ok {
			in := int(minute)
			entry.SubbedInMinute = &in
		}

		key := "name:" + strings.ToLower(entry.PlayerName)
		if entry.PlayerID != nil {
			key = "id:" + strconv.FormatInt(*entry.PlayerID, 10)
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
		return false
	})

	return entries
}
