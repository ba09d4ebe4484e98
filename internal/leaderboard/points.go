package leaderboard

import (
	"fmt"
	"time"

	"github.com/abhisek/fido/internal/feedback"
)

// AwardType identifies why points were granted.
type AwardType string

const (
	AwardFeedbackSubmission AwardType = "feedback_submission"
	AwardDetailedFeedback   AwardType = "detailed_feedback"
	AwardLanguagePractice   AwardType = "language_practice"
)

// PointsConfig sets how many points each award is worth.
type PointsConfig struct {
	FeedbackSubmission int64 `yaml:"feedback_submission"`
	DetailedFeedback   int64 `yaml:"detailed_feedback"`
	LanguagePractice   int64 `yaml:"language_practice"`

	// DetailedWords is the average words per answer that earns the
	// detailed-feedback bonus.
	DetailedWords int `yaml:"detailed_words"`
}

// DefaultPoints returns the standard award values.
func DefaultPoints() PointsConfig {
	return PointsConfig{
		FeedbackSubmission: 50,
		DetailedFeedback:   20,
		LanguagePractice:   25,
		DetailedWords:      12,
	}
}

// Award is one grant of points.
type Award struct {
	Type      AwardType `json:"type"`
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	RecordID  string    `json:"record_id,omitempty"`
	AwardedAt time.Time `json:"awarded_at"`
}

// AwardsFor returns the awards a completed feedback record earns its
// assessor.
func (c PointsConfig) AwardsFor(rec feedback.Record) []Award {
	awards := []Award{{
		Type:     AwardFeedbackSubmission,
		Points:   c.FeedbackSubmission,
		Reason:   fmt.Sprintf("Feedback for %s", rec.Target),
		RecordID: rec.ID,
	}}

	if rec.AnswerCount > 0 && c.DetailedWords > 0 && rec.AnswerWords >= c.DetailedWords*rec.AnswerCount {
		awards = append(awards, Award{
			Type:     AwardDetailedFeedback,
			Points:   c.DetailedFeedback,
			Reason:   fmt.Sprintf("Detailed answers (%d words)", rec.AnswerWords),
			RecordID: rec.ID,
		})
	}

	if rec.LanguageNotes != nil && rec.LanguageNotes.Level != "" {
		awards = append(awards, Award{
			Type:     AwardLanguagePractice,
			Points:   c.LanguagePractice,
			Reason:   "Language practice: " + rec.LanguageNotes.Level,
			RecordID: rec.ID,
		})
	}

	for i := range awards {
		awards[i].AwardedAt = rec.CompletedAt
	}
	return awards
}
