package survey

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Question types.
const (
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeScale   = "scale"
	TypeSelect  = "select"
	TypeText    = "text"
	TypeVAS     = "vas"
	TypeVAS100  = "vas100"
)

// Scoring methods.
const (
	MethodSum    = "sum"
	MethodLinear = "linear"
)

// Term transforms for the linear method.
const (
	TransformIdentity = "identity"
	TransformSqrt     = "sqrt"
	TransformLog1p    = "log1p"
)

// Template maps to the survey_template table. Sections, scoring and bands
// are stored as JSONB. Templates are immutable at request time; authoring
// happens through migrations and the seed command.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category,omitempty"`
	Sections    []Section `db:"sections" json:"sections"`
	Scoring     Scoring   `db:"scoring" json:"scoring"`
	Bands       []Band    `db:"bands" json:"bands"`
	AutoAdvice  bool      `db:"auto_advice" json:"auto_advice"`
	Version     int       `db:"version" json:"version"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TemplateSummary is the list-endpoint projection of a template.
type TemplateSummary struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Section groups questions; section and question order is significant for
// numbering and prompt assembly.
type Section struct {
	ID        string     `json:"section"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Question is a single survey item. Min/Max are pointers so that an absent
// bound can be distinguished from an explicit zero.
type Question struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Type     string         `json:"type"`
	Score    float64        `json:"score,omitempty"`
	Min      *float64       `json:"min,omitempty"`
	Max      *float64       `json:"max,omitempty"`
	Options  []Option       `json:"options,omitempty"`
	Required bool           `json:"required,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Option is one selectable value of a select question. Points overrides the
// option's score contribution; when nil the raw value is used.
type Option struct {
	Value  float64  `json:"value"`
	Label  string   `json:"label"`
	Points *float64 `json:"points,omitempty"`
}

// IsNumeric reports whether the question's answers are numbers.
func (q Question) IsNumeric() bool {
	switch q.Type {
	case TypeNumber, TypeScale, TypeVAS, TypeVAS100:
		return true
	}
	return false
}

// Bounds returns the effective numeric range for the question.
// Defaults are 0..10, except vas100 which defaults to 0..100.
func (q Question) Bounds() (min, max float64) {
	min, max = 0, 10
	if q.Type == TypeVAS100 {
		max = 100
	}
	if q.Min != nil {
		min = *q.Min
	}
	if q.Max != nil {
		max = *q.Max
	}
	return min, max
}

// Weight returns the question's score weight, defaulting to 1.
func (q Question) Weight() float64 {
	if q.Score != 0 {
		return q.Score
	}
	return 1
}

// Scoring is the template's rule table. An empty method means "sum".
type Scoring struct {
	Method   string  `json:"method,omitempty"`
	Terms    []Term  `json:"terms,omitempty"`
	Constant float64 `json:"constant,omitempty"`
}

// Term is one component of a linear score.
type Term struct {
	QuestionID  string  `json:"question_id"`
	Transform   string  `json:"transform,omitempty"`
	Coefficient float64 `json:"coefficient"`
}

// Band maps a score interval to an interpretation label. Intervals are
// half-open [Min, Max); a nil Max and the final band are closed at the top.
type Band struct {
	Min         float64  `json:"min"`
	Max         *float64 `json:"max,omitempty"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// Questions returns the template's questions flattened across sections,
// order preserved.
func (t *Template) Questions() []Question {
	var qs []Question
	for _, sec := range t.Sections {
		qs = append(qs, sec.Questions...)
	}
	return qs
}

// QuestionByID looks a question up across all sections.
func (t *Template) QuestionByID(id string) (Question, bool) {
	for _, sec := range t.Sections {
		for _, q := range sec.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// HasTextQuestions reports whether the template carries any free-text
// questions, which feed the auto-assembled advice prompt.
func (t *Template) HasTextQuestions() bool {
	for _, sec := range t.Sections {
		for _, q := range sec.Questions {
			if q.Type == TypeText {
				return true
			}
		}
	}
	return false
}

// Summary returns the list projection of the template.
func (t *Template) Summary() TemplateSummary {
	return TemplateSummary{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Category:    t.Category,
		Description: t.Description,
	}
}

// Result is the outcome of scoring one answer set. It is derived and
// immutable; persistence happens through Response.
type Result struct {
	Score          float64 `json:"score"`
	Interpretation string  `json:"interpretation"`
}

// Response maps to the survey_response table. Answers holds the raw
// submitted answer set as JSONB.
type Response struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TemplateID     uuid.UUID       `db:"template_id" json:"template_id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Answers        json.RawMessage `db:"answers" json:"answers"`
	Score          float64         `db:"score" json:"score"`
	Interpretation string          `db:"interpretation" json:"interpretation"`
	SubmittedAt    time.Time       `db:"submitted_at" json:"submitted_at"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`

	// Joined field
	Template *Template `db:"-" json:"template,omitempty"`
}

// Answer is a normalized, typed answer to one question. Exactly one of the
// value fields is meaningful depending on Type.
type Answer struct {
	QuestionID string
	Type       string
	Bool       bool
	Number     float64
	Text       string
}
