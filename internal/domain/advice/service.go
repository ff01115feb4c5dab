package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinscore/clinscore/internal/domain/survey"
)

// ErrAdviceUnavailable signals that the generative subsystem failed or
// timed out. The survey result computed alongside the request stays valid.
var ErrAdviceUnavailable = errors.New("advice unavailable")

// Generator is the generative-text subsystem. Implemented by the gpt
// client; tests substitute a fake.
type Generator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const systemPrompt = `You are a medical information assistant for a patient.
Your answers must be safe: no diagnoses, no prescription drugs, no dosages.
Write in plain language.
Do not add your own disclaimers or warnings; the application shows a standard one separately.
Structure of the answer:
1) Short summary of the result (1-2 sentences)
2) What it may mean, in general terms
3) What can be done now (general measures, no treatment or dosing)
4) When to seek medical help urgently
5) Questions to discuss with a doctor`

type Service struct {
	templates survey.TemplateRepository
	repo      Repository
	gen       Generator
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewService(templates survey.TemplateRepository, repo Repository, gen Generator, timeout time.Duration, logger zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{templates: templates, repo: repo, gen: gen, timeout: timeout, logger: logger}
}

// RequestAdvice scores the answer set for the given survey and asks the
// generative subsystem for patient-facing advice. The score is computed
// before the subsystem is called and stays valid regardless of its outcome.
// Every successful call appends a new history record; identical requests
// are deliberately not deduplicated.
func (s *Service) RequestAdvice(ctx context.Context, userID uuid.UUID, surveyCode string, answers map[string]any, userText string) (*Result, error) {
	surveyCode = strings.TrimSpace(surveyCode)
	if surveyCode == "" {
		return nil, fmt.Errorf("survey code is required")
	}

	t, err := s.templates.GetByCode(ctx, surveyCode)
	if err != nil {
		return nil, err
	}

	normalized, err := survey.Normalize(t, answers)
	if err != nil {
		return nil, err
	}
	score, err := survey.Score(t, normalized)
	if err != nil {
		return nil, err
	}
	label, err := survey.Interpret(t, score)
	if err != nil {
		return nil, err
	}

	result := survey.Result{Score: score, Interpretation: label}
	return s.adviseScored(ctx, userID, t, normalized, result, userText)
}

// ListAdvice returns the user's advice history, most recent first.
func (s *Service) ListAdvice(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Result, int, error) {
	records, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	results := make([]*Result, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.Result())
	}
	return results, total, nil
}

func (s *Service) adviseScored(ctx context.Context, userID uuid.UUID, t *survey.Template, answers []survey.Answer, result survey.Result, userText string) (*Result, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("%w: no generator configured", ErrAdviceUnavailable)
	}

	userText = strings.TrimSpace(userText)
	prompt := buildPrompt(t, answers, result, userText)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.GenerateText(genCtx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}
	text = normalizeAdviceText(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrAdviceUnavailable)
	}

	rec := &Record{
		ID:         uuid.New(),
		UserID:     userID,
		SurveyCode: t.Code,
		UserText:   userText,
		AdviceText: text,
		Score:      result.Score,
		Category:   result.Interpretation,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store advice: %w", err)
	}

	s.logger.Info().
		Str("survey", t.Code).
		Str("advice_id", rec.ID.String()).
		Msg("advice generated")

	return rec.Result(), nil
}

// buildPrompt assembles the user prompt: the template name and result,
// followed by the caller's free text or, when absent, one
// "question: value" line per non-blank text answer in template order.
func buildPrompt(t *survey.Template, answers []survey.Answer, result survey.Result, userText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Survey: %s (%s)\n", t.Name, t.Code)
	fmt.Fprintf(&b, "Score: %.2f\n", result.Score)
	fmt.Fprintf(&b, "Interpretation: %s\n", result.Interpretation)

	if userText != "" {
		fmt.Fprintf(&b, "\nPatient comment: %s\n", userText)
		return b.String()
	}

	var lines []string
	for _, a := range answers {
		if a.Type != survey.TypeText {
			continue
		}
		value := strings.TrimSpace(a.Text)
		if value == "" {
			continue
		}
		q, ok := t.QuestionByID(a.QuestionID)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", q.Text, value))
	}
	if len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// normalizeAdviceText trims the model output and strips our disclaimer if
// the model echoed it despite instructions.
func normalizeAdviceText(text string) string {
	out := strings.TrimSpace(text)
	if out == "" {
		return out
	}
	out = strings.ReplaceAll(out, Disclaimer, "")
	return strings.TrimSpace(out)
}

// SurveyAdvisor adapts the service to the survey package's Advisor
// interface for the auto-advice flow on submission.
type SurveyAdvisor struct {
	svc *Service
}

func NewSurveyAdvisor(svc *Service) *SurveyAdvisor {
	return &SurveyAdvisor{svc: svc}
}

func (a *SurveyAdvisor) AdviseSubmission(ctx context.Context, userID uuid.UUID, t *survey.Template, answers []survey.Answer, result survey.Result) error {
	_, err := a.svc.adviseScored(ctx, userID, t, answers, result, "")
	return err
}
