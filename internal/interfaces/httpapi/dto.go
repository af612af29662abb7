package httpapi

import (
	"fmt"
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/domain/player"
	"github.com/hafizln/matchprobe/internal/usecase"
)

type playerRefDTO struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type goalEventDTO struct {
	ScorerID   *int64 `json:"scorerId,omitempty"`
	ScorerName string `json:"scorerName,omitempty"`
	AssistID   *int64 `json:"assistId,omitempty"`
	AssistName string `json:"assistName,omitempty"`
	IsPenalty  bool   `json:"isPenalty"`
	IsOwnGoal  bool   `json:"isOwnGoal"`
}

type cardEventDTO struct {
	PlayerID   *int64 `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Kind       string `json:"kind"`
}

type ratingRowDTO struct {
	PlayerID     *int64  `json:"playerId,omitempty"`
	Name         string  `json:"name,omitempty"`
	Rating       float64 `json:"rating"`
	Goals        *int    `json:"goals,omitempty"`
	PenaltyGoals *int    `json:"penaltyGoals,omitempty"`
	Assists      *int    `json:"assists,omitempty"`
	YellowCards  *int    `json:"yellowCards,omitempty"`
	RedCards     *int    `json:"redCards,omitempty"`
	Minutes      *int    `json:"minutes,omitempty"`
}

type lineupEntryDTO struct {
	PlayerID        *int64 `json:"playerId,omitempty"`
	PlayerName      string `json:"playerName,omitempty"`
	Starter         bool   `json:"starter"`
	SubbedInMinute  *int   `json:"subbedInMinute,omitempty"`
	SubbedOutMinute *int   `json:"subbedOutMinute,omitempty"`
}

type matchDataDTO struct {
	LeagueID         *int64           `json:"leagueId,omitempty"`
	LeagueName       string           `json:"leagueName,omitempty"`
	KickoffUTC       *string          `json:"kickoffUtc,omitempty"`
	Title            string           `json:"title,omitempty"`
	PlayerOfTheMatch *playerRefDTO    `json:"playerOfTheMatch,omitempty"`
	GoalEvents       []goalEventDTO   `json:"goalEvents,omitempty"`
	CardEvents       []cardEventDTO   `json:"cardEvents,omitempty"`
	Ratings          []ratingRowDTO   `json:"ratings,omitempty"`
	Lineups          []lineupEntryDTO `json:"lineups,omitempty"`
}

type matchReportDTO struct {
	MatchID       int64         `json:"matchId"`
	FinalURL      string        `json:"finalUrl,omitempty"`
	Source        string        `json:"source"`
	LeagueAllowed bool          `json:"leagueAllowed"`
	WithinSeason  bool          `json:"withinSeason"`
	Match         *matchDataDTO `json:"match,omitempty"`
	Error         string        `json:"error,omitempty"`
}

type statAggregateDTO struct {
	Goals           int  `json:"goals"`
	PenaltyGoals    int  `json:"penaltyGoals"`
	NonPenaltyGoals int  `json:"nonPenaltyGoals"`
	Assists         int  `json:"assists"`
	YellowCards     int  `json:"yellowCards"`
	RedCards        int  `json:"redCards"`
	MinutesPlayed   *int `json:"minutesPlayed,omitempty"`
	FullMatchPlayed bool `json:"fullMatchPlayed"`
	IsPlayerOfMatch bool `json:"isPlayerOfMatch"`
	POTMDerived     bool `json:"potmDerived"`
}

type playerReportDTO struct {
	Reference string           `json:"reference"`
	Match     matchReportDTO   `json:"match"`
	Stats     statAggregateDTO `json:"stats"`
}

type batchFailureDTO struct {
	Unit  string `json:"unit"`
	Error string `json:"error"`
}

type playerBatchDTO struct {
	Players      []playerReportDTO `json:"players"`
	Failures     []batchFailureDTO `json:"failures,omitempty"`
	FailureCount int               `json:"failureCount"`
}

type dateScanDTO struct {
	MatchIDs     []int64           `json:"matchIds"`
	Matches      []matchReportDTO  `json:"matches"`
	Players      []playerReportDTO `json:"players,omitempty"`
	Failures     []batchFailureDTO `json:"failures,omitempty"`
	FailureCount int               `json:"failureCount"`
}

func matchReportToDTO(report usecase.MatchReport) matchReportDTO {
	dto := matchReportDTO{
		MatchID:       report.MatchID,
		FinalURL:      report.FinalURL,
		Source:        string(report.Source),
		LeagueAllowed: report.LeagueAllowed,
		WithinSeason:  report.WithinSeason,
		Error:         report.Error,
	}
	if report.Source != match.SourceUnavailable {
		data := matchDataToDTO(report.Data)
		dto.Match = &data
	}
	return dto
}

func matchDataToDTO(data match.Data) matchDataDTO {
	dto := matchDataDTO{
		LeagueID:   data.LeagueID,
		LeagueName: data.LeagueName,
		Title:      data.Title,
	}
	if data.KickoffUTC != nil {
		kickoff := data.KickoffUTC.UTC().Format(time.RFC3339)
		dto.KickoffUTC = &kickoff
	}
	if data.PlayerOfTheMatch != nil {
		dto.PlayerOfTheMatch = &playerRefDTO{ID: data.PlayerOfTheMatch.ID, Name: data.PlayerOfTheMatch.Name}
	}
	for _, ev := range data.GoalEvents {
		dto.GoalEvents = append(dto.GoalEvents, goalEventDTO{
			ScorerID:   ev.ScorerID,
			ScorerName: ev.ScorerName,
			AssistID:   ev.AssistID,
			AssistName: ev.AssistName,
			IsPenalty:  ev.IsPenalty,
			IsOwnGoal:  ev.IsOwnGoal,
		})
	}
	for _, ev := range data.CardEvents {
		dto.CardEvents = append(dto.CardEvents, cardEventDTO{
			PlayerID:   ev.PlayerID,
			PlayerName: ev.PlayerName,
			Kind:       string(ev.Kind),
		})
	}
	for _, row := range data.Ratings {
		dto.Ratings = append(dto.Ratings, ratingRowDTO{
			PlayerID:     row.ID,
			Name:         row.Name,
			Rating:       row.Rating,
			Goals:        row.Goals,
			PenaltyGoals: row.PenaltyGoals,
			Assists:      row.Assists,
			YellowCards:  row.YellowCards,
			RedCards:     row.RedCards,
			Minutes:      row.Minutes,
		})
	}
	for _, entry := range data.Lineups {
		dto.Lineups = append(dto.Lineups, lineupEntryDTO{
			PlayerID:        entry.PlayerID,
			PlayerName:      entry.PlayerName,
			Starter:         entry.Starter,
			SubbedInMinute:  entry.SubbedInMinute,
			SubbedOutMinute: entry.SubbedOutMinute,
		})
	}
	return dto
}

func playerReportToDTO(report usecase.PlayerReport) playerReportDTO {
	return playerReportDTO{
		Reference: report.Reference,
		Match:     matchReportToDTO(report.Match),
		Stats: statAggregateDTO{
			Goals:           report.Stats.Goals,
			PenaltyGoals:    report.Stats.PenaltyGoals,
			NonPenaltyGoals: report.Stats.NonPenaltyGoals,
			Assists:         report.Stats.Assists,
			YellowCards:     report.Stats.YellowCards,
			RedCards:        report.Stats.RedCards,
			MinutesPlayed:   report.Stats.MinutesPlayed,
			FullMatchPlayed: report.Stats.FullMatchPlayed,
			IsPlayerOfMatch: report.Stats.IsPlayerOfMatch,
			POTMDerived:     report.Stats.POTMDerived,
		},
	}
}

func playerBatchToDTO(result usecase.PlayerBatchResult) playerBatchDTO {
	dto := playerBatchDTO{
		Players:      make([]playerReportDTO, 0, len(result.Players)),
		FailureCount: result.FailureCount,
	}
	for _, report := range result.Players {
		dto.Players = append(dto.Players, playerReportToDTO(report))
	}
	dto.Failures = failuresToDTO(result.Failures)
	return dto
}

// scanPlayersToDTO aggregates the queried player's statistics over every match
// a scan actually extracted. Matches whose tiers were exhausted are skipped.
func scanPlayersToDTO(result usecase.DateScanResult, query player.Query) []playerReportDTO {
	var out []playerReportDTO
	for _, report := range result.Matches {
		if report.Source == match.SourceUnavailable {
			continue
		}
		out = append(out, playerReportToDTO(usecase.PlayerReport{
			Reference: fmt.Sprintf("match:%d", report.MatchID),
			Match:     report,
			Stats:     usecase.AggregateStats(report.Data, query),
		}))
	}
	return out
}

func dateScanToDTO(result usecase.DateScanResult) dateScanDTO {
	dto := dateScanDTO{
		MatchIDs:     result.MatchIDs,
		Matches:      make([]matchReportDTO, 0, len(result.Matches)),
		FailureCount: result.FailureCount,
	}
	for _, report := range result.Matches {
		dto.Matches = append(dto.Matches, matchReportToDTO(report))
	}
	dto.Failures = failuresToDTO(result.Failures)
	return dto
}

func failuresToDTO(failures []usecase.BatchFailure) []batchFailureDTO {
	out := make([]batchFailureDTO, 0, len(failures))
	for _, failure := range failures {
		out = append(out, batchFailureDTO{Unit: failure.Unit, Error: failure.Error})
	}
	return out
}
