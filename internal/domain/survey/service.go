package survey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Advisor generates advice for a scored submission. It is implemented by
// the advice package; the indirection keeps the scoring core free of the
// generative subsystem.
type Advisor interface {
	AdviseSubmission(ctx context.Context, userID uuid.UUID, t *Template, answers []Answer, result Result) error
}

type Service struct {
	templates TemplateRepository
	responses ResponseRepository
	advisor   Advisor
	logger    zerolog.Logger
}

func NewService(templates TemplateRepository, responses ResponseRepository, logger zerolog.Logger) *Service {
	return &Service{templates: templates, responses: responses, logger: logger}
}

// SetAdvisor attaches the optional advice generator used for templates
// flagged auto_advice.
func (s *Service) SetAdvisor(a Advisor) {
	s.advisor = a
}

func (s *Service) ListTemplates(ctx context.Context) ([]TemplateSummary, error) {
	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	summaries := make([]TemplateSummary, 0, len(templates))
	for _, t := range templates {
		summaries = append(summaries, t.Summary())
	}
	return summaries, nil
}

func (s *Service) GetTemplateByCode(ctx context.Context, code string) (*Template, error) {
	return s.templates.GetByCode(ctx, code)
}

// Calculate scores an answer set without persisting anything. This backs
// the client's preview flow.
func (s *Service) Calculate(ctx context.Context, code string, raw map[string]any) (*Result, error) {
	t, err := s.templates.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return Evaluate(t, raw)
}

// Evaluate runs normalize, score and interpret against one template. It is
// pure and shared by the stateless and persisting paths.
func Evaluate(t *Template, raw map[string]any) (*Result, error) {
	answers, err := Normalize(t, raw)
	if err != nil {
		return nil, err
	}
	score, err := Score(t, answers)
	if err != nil {
		return nil, err
	}
	label, err := Interpret(t, score)
	if err != nil {
		return nil, err
	}
	return &Result{Score: score, Interpretation: label}, nil
}

// SubmitResponse scores and persists a submission for the given user. When
// the template is flagged auto_advice, the advisor runs after the response
// is stored; an advice failure is logged and ignored, the stored score and
// interpretation stand on their own.
func (s *Service) SubmitResponse(ctx context.Context, userID, templateID uuid.UUID, raw map[string]any) (*Response, error) {
	if templateID == uuid.Nil {
		return nil, newError(KindValidation, "template_id is required")
	}
	t, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	answers, err := Normalize(t, raw)
	if err != nil {
		return nil, err
	}
	score, err := Score(t, answers)
	if err != nil {
		return nil, err
	}
	label, err := Interpret(t, score)
	if err != nil {
		return nil, err
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	resp := &Response{
		ID:             uuid.New(),
		TemplateID:     t.ID,
		UserID:         userID,
		Answers:        rawJSON,
		Score:          score,
		Interpretation: label,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}

	if t.AutoAdvice && s.advisor != nil {
		result := Result{Score: score, Interpretation: label}
		if err := s.advisor.AdviseSubmission(ctx, userID, t, answers, result); err != nil {
			s.logger.Warn().Err(err).
				Str("template", t.Code).
				Str("response_id", resp.ID.String()).
				Msg("auto advice failed")
		}
	}

	resp.Template = t
	return resp, nil
}

// GetResponse fetches one submission. Callers only see their own records.
func (s *Service) GetResponse(ctx context.Context, userID, id uuid.UUID) (*Response, error) {
	resp, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp.UserID != userID {
		return nil, newError(KindNotFound, "survey response not found")
	}
	return resp, nil
}

// ListResponses returns the user's submissions, most recent first.
func (s *Service) ListResponses(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Response, int, error) {
	return s.responses.ListByUser(ctx, userID, limit, offset)
}
