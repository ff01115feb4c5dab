package advice

import (
	"time"

	"github.com/google/uuid"
)

// Disclaimer is appended to every advice payload. The generative model is
// instructed not to emit its own; the application shows this one.
const Disclaimer = "Important: this is general information, not a clinical recommendation, and it does not replace a consultation with a doctor. Seek medical help if your condition worsens or you experience severe pain, high fever, shortness of breath or other alarming symptoms."

// Record maps to the ai_advice table. Advice history is append-only; rows
// are never updated and removal is left to external retention policy.
type Record struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	SurveyCode string    `db:"survey_code" json:"survey_code"`
	UserText   string    `db:"user_text" json:"user_text,omitempty"`
	AdviceText string    `db:"advice_text" json:"advice_text"`
	Score      float64   `db:"score" json:"score"`
	Category   string    `db:"category" json:"category"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Result is the API projection of a record, with the disclaimer attached.
type Result struct {
	ID         uuid.UUID `json:"id"`
	SurveyCode string    `json:"survey_code"`
	UserText   string    `json:"user_text,omitempty"`
	AdviceText string    `json:"advice_text"`
	Disclaimer string    `json:"disclaimer"`
	Score      float64   `json:"score"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

// Result returns the API projection of the record.
func (r *Record) Result() *Result {
	return &Result{
		ID:         r.ID,
		SurveyCode: r.SurveyCode,
		UserText:   r.UserText,
		AdviceText: r.AdviceText,
		Disclaimer: Disclaimer,
		Score:      r.Score,
		Category:   r.Category,
		CreatedAt:  r.CreatedAt,
	}
}
