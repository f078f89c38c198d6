// Package domain contains the payload shapes returned by the scoring service.
//
// Each payload keeps the bytes it was decoded from and marshals back to them
// unchanged, so fields the typed view does not know about survive a round trip.
package domain

import "encoding/json"

// ScoreRecord is one candidate's examination scores. Missing subjects are nil.
type ScoreRecord struct {
	RegistrationNumber string   `json:"r_number"`
	Math               *float64 `json:"math"`
	Literature         *float64 `json:"literature"`
	ForeignLang        *float64 `json:"foreign_lang"`
	Physics            *float64 `json:"physics"`
	Chemistry          *float64 `json:"chemistry"`
	Biology            *float64 `json:"biology"`
	History            *float64 `json:"history"`
	Geography          *float64 `json:"geography"`
	CivicEducation     *float64 `json:"civic_education"`
	ForeignLangCode    *string  `json:"foreign_lang_code"`

	Raw json.RawMessage `json:"-"`
}

// LevelCounts counts scores per performance band.
type LevelCounts struct {
	Excellent    float64 `json:"excellent"`
	Good         float64 `json:"good"`
	Average      float64 `json:"average"`
	BelowAverage float64 `json:"below_average"`
}

type SubjectStatistics struct {
	LevelCounts
	TotalStudents float64 `json:"total_students"`
}

type SubjectReport struct {
	Subject     string            `json:"subject"`
	SubjectName string            `json:"subject_name"`
	Statistics  SubjectStatistics `json:"statistics"`
}

type ReportSummary struct {
	TotalScoresAnalyzed float64     `json:"total_scores_analyzed"`
	OverallDistribution LevelCounts `json:"overall_distribution"`
	Percentages         LevelCounts `json:"percentages"`
}

// ScoreLevels describes the score range of each band, e.g. ">= 8".
type ScoreLevels struct {
	Excellent    string `json:"excellent"`
	Good         string `json:"good"`
	Average      string `json:"average"`
	BelowAverage string `json:"below_average"`
}

// ScoreReport is the aggregate per-subject band report.
type ScoreReport struct {
	Subjects    []SubjectReport `json:"subjects"`
	Summary     ReportSummary   `json:"summary"`
	ScoreLevels ScoreLevels     `json:"score_levels"`

	Raw json.RawMessage `json:"-"`
}

type GroupScores struct {
	Math      *float64 `json:"math"`
	Physics   *float64 `json:"physics"`
	Chemistry *float64 `json:"chemistry"`
}

type Student struct {
	RegistrationNumber string      `json:"r_number"`
	SubjectScores      GroupScores `json:"subject_scores"`
	TotalScore         float64     `json:"total_score"`
	AverageScore       float64     `json:"average_score"`
	SubjectsCount      float64     `json:"subjects_count"`
	ForeignLangCode    *string     `json:"foreign_lang_code"`
	Rank               float64     `json:"rank"`
}

type TotalsStats struct {
	HighestTotal     float64 `json:"highest_total"`
	LowestTotal      float64 `json:"lowest_total"`
	AverageTotal     float64 `json:"average_total"`
	AverageScoreMean float64 `json:"average_score_mean"`
}

type LeaderboardSummary struct {
	TotalGroupAStudents float64     `json:"total_group_a_students"`
	TopStudentsCount    float64     `json:"top_students_count"`
	AllStudentsStats    TotalsStats `json:"all_students_stats"`
	TopStudentsStats    TotalsStats `json:"top_students_stats"`
}

type LeaderboardCriteria struct {
	Group           string   `json:"group"`
	Subjects        []string `json:"subjects"`
	RankingMethod   string   `json:"ranking_method"`
	MinimumSubjects float64  `json:"minimum_subjects"`
	Limit           float64  `json:"limit"`
}

// Leaderboard is the group A top-students ranking.
type Leaderboard struct {
	TopStudents []Student           `json:"top_students"`
	Summary     LeaderboardSummary  `json:"summary"`
	Criteria    LeaderboardCriteria `json:"criteria"`

	Raw json.RawMessage `json:"-"`
}

// DashboardSummary is passed through as received; the service defines its shape.
type DashboardSummary json.RawMessage

// Decode unmarshals the summary into v.
func (s DashboardSummary) Decode(v any) error {
	return json.Unmarshal(s, v)
}

func (s DashboardSummary) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *DashboardSummary) UnmarshalJSON(b []byte) error {
	*s = append((*s)[:0], b...)
	return nil
}

// SetRaw records the bytes r was decoded from.
func (r *ScoreRecord) SetRaw(b json.RawMessage) { r.Raw = b }

// SetRaw records the bytes r was decoded from.
func (r *ScoreReport) SetRaw(b json.RawMessage) { r.Raw = b }

// SetRaw records the bytes l was decoded from.
func (l *Leaderboard) SetRaw(b json.RawMessage) { l.Raw = b }

type (
	scoreRecord ScoreRecord
	scoreReport ScoreReport
	leaderboard Leaderboard
)

func (r ScoreRecord) MarshalJSON() ([]byte, error) { return marshalRaw(r.Raw, scoreRecord(r)) }

func (r ScoreReport) MarshalJSON() ([]byte, error) { return marshalRaw(r.Raw, scoreReport(r)) }

func (l Leaderboard) MarshalJSON() ([]byte, error) { return marshalRaw(l.Raw, leaderboard(l)) }

// marshalRaw returns raw when present, otherwise the JSON of the typed view.
func marshalRaw(raw json.RawMessage, typed any) ([]byte, error) {
	if len(raw) > 0 {
		return raw, nil
	}
	return json.Marshal(typed)
}
