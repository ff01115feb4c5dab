package advice

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinscore/clinscore/internal/domain/survey"
)

// -- Mocks --

type mockTemplateRepo struct {
	byCode map[string]*survey.Template
}

func newMockTemplateRepo(templates ...*survey.Template) *mockTemplateRepo {
	m := &mockTemplateRepo{byCode: make(map[string]*survey.Template)}
	for _, t := range templates {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		m.byCode[t.Code] = t
	}
	return m
}

func (m *mockTemplateRepo) GetByCode(_ context.Context, code string) (*survey.Template, error) {
	t, ok := m.byCode[code]
	if !ok {
		return nil, &survey.Error{Kind: survey.KindNotFound, Message: "survey template not found"}
	}
	return t, nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*survey.Template, error) {
	for _, t := range m.byCode {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, &survey.Error{Kind: survey.KindNotFound, Message: "survey template not found"}
}

func (m *mockTemplateRepo) ListActive(_ context.Context) ([]*survey.Template, error) {
	var out []*survey.Template
	for _, t := range m.byCode {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTemplateRepo) Upsert(_ context.Context, t *survey.Template) error {
	m.byCode[t.Code] = t
	return nil
}

type mockAdviceRepo struct {
	records []*Record
}

func (m *mockAdviceRepo) Create(_ context.Context, r *Record) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockAdviceRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var out []*Record
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeGenerator struct {
	lastSystem string
	lastUser   string
	text       string
	err        error
}

func (g *fakeGenerator) GenerateText(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func fp(v float64) *float64 { return &v }

func adviceTemplate() *survey.Template {
	return &survey.Template{
		ID:   uuid.New(),
		Code: "RISK",
		Name: "Risk Assessment",
		Sections: []survey.Section{{
			ID: "main",
			Questions: []survey.Question{
				{ID: "smoker", Text: "Current smoker", Type: survey.TypeBoolean, Score: 1},
				{ID: "complaint", Text: "Main complaint", Type: survey.TypeText},
				{ID: "history", Text: "Relevant history", Type: survey.TypeText},
			},
		}},
		Scoring: survey.Scoring{Method: survey.MethodSum},
		Bands: []survey.Band{
			{Min: 0, Max: fp(1), Label: "low"},
			{Min: 1, Label: "high"},
		},
	}
}

func newTestService(gen Generator, templates ...*survey.Template) (*Service, *mockAdviceRepo) {
	repo := &mockAdviceRepo{}
	svc := NewService(newMockTemplateRepo(templates...), repo, gen, time.Second, zerolog.Nop())
	return svc, repo
}

// -- Tests --

func TestRequestAdvice(t *testing.T) {
	gen := &fakeGenerator{text: "rest and drink fluids"}
	svc, repo := newTestService(gen, adviceTemplate())
	userID := uuid.New()

	result, err := svc.RequestAdvice(context.Background(), userID, "RISK",
		map[string]any{"smoker": true, "complaint": "headache"}, "")
	if err != nil {
		t.Fatalf("RequestAdvice: %v", err)
	}

	if result.AdviceText != "rest and drink fluids" {
		t.Errorf("advice text = %q", result.AdviceText)
	}
	if result.Disclaimer != Disclaimer {
		t.Error("disclaimer missing from result")
	}
	if result.Score != 1 || result.Category != "high" {
		t.Errorf("unexpected result %+v", result)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(repo.records))
	}
}

func TestRequestAdvicePromptFromTextAnswers(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc, _ := newTestService(gen, adviceTemplate())

	// Two text questions, only one with non-blank content: exactly one
	// "question: value" line must appear in the prompt.
	_, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK",
		map[string]any{"complaint": "sharp back pain", "history": "   "}, "")
	if err != nil {
		t.Fatalf("RequestAdvice: %v", err)
	}

	if !strings.Contains(gen.lastUser, "Main complaint: sharp back pain") {
		t.Errorf("prompt missing complaint line:\n%s", gen.lastUser)
	}
	if strings.Contains(gen.lastUser, "Relevant history") {
		t.Errorf("blank text answer must not appear in prompt:\n%s", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "Survey: Risk Assessment (RISK)") {
		t.Errorf("prompt missing survey header:\n%s", gen.lastUser)
	}
}

func TestRequestAdviceUserTextOverridesAutoPrompt(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc, repo := newTestService(gen, adviceTemplate())

	result, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK",
		map[string]any{"complaint": "headache"}, "I also feel dizzy")
	if err != nil {
		t.Fatalf("RequestAdvice: %v", err)
	}

	if !strings.Contains(gen.lastUser, "Patient comment: I also feel dizzy") {
		t.Errorf("prompt missing user text:\n%s", gen.lastUser)
	}
	if strings.Contains(gen.lastUser, "Main complaint") {
		t.Errorf("auto prompt must not be used when user text is supplied:\n%s", gen.lastUser)
	}
	if result.UserText != "I also feel dizzy" || repo.records[0].UserText != "I also feel dizzy" {
		t.Error("user text not carried on the record")
	}
}

func TestRequestAdviceGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	svc, repo := newTestService(gen, adviceTemplate())

	_, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK", map[string]any{}, "")
	if !errors.Is(err, ErrAdviceUnavailable) {
		t.Fatalf("expected ErrAdviceUnavailable, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Error("failed advice must not be persisted")
	}
}

func TestRequestAdviceEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{text: "   "}
	svc, _ := newTestService(gen, adviceTemplate())

	_, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK", map[string]any{}, "")
	if !errors.Is(err, ErrAdviceUnavailable) {
		t.Fatalf("expected ErrAdviceUnavailable for empty output, got %v", err)
	}
}

func TestRequestAdviceStripsEchoedDisclaimer(t *testing.T) {
	gen := &fakeGenerator{text: "stay hydrated\n\n" + Disclaimer}
	svc, _ := newTestService(gen, adviceTemplate())

	result, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK", map[string]any{}, "")
	if err != nil {
		t.Fatalf("RequestAdvice: %v", err)
	}
	if result.AdviceText != "stay hydrated" {
		t.Errorf("disclaimer not stripped: %q", result.AdviceText)
	}
}

func TestRequestAdviceNoDeduplication(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc, repo := newTestService(gen, adviceTemplate())
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.RequestAdvice(context.Background(), userID, "RISK", map[string]any{}, ""); err != nil {
			t.Fatalf("RequestAdvice #%d: %v", i, err)
		}
	}
	if len(repo.records) != 3 {
		t.Errorf("expected 3 history records, got %d", len(repo.records))
	}
}

func TestRequestAdviceUnknownTemplate(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{text: "ok"}, adviceTemplate())

	_, err := svc.RequestAdvice(context.Background(), uuid.New(), "MISSING", map[string]any{}, "")
	if !survey.IsKind(err, survey.KindNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestRequestAdviceValidationBeforeGeneration(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc, _ := newTestService(gen, adviceTemplate())

	_, err := svc.RequestAdvice(context.Background(), uuid.New(), "RISK",
		map[string]any{"smoker": "yes"}, "")
	if !survey.IsKind(err, survey.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.lastUser != "" {
		t.Error("generator must not run for invalid answers")
	}
}

func TestListAdviceMostRecentFirst(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{text: "ok"}, adviceTemplate())
	userID := uuid.New()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		repo.records = append(repo.records, &Record{
			ID:         uuid.New(),
			UserID:     userID,
			SurveyCode: "RISK",
			AdviceText: "a",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	// another user's record must not leak
	repo.records = append(repo.records, &Record{ID: uuid.New(), UserID: uuid.New(), SurveyCode: "RISK"})

	results, total, err := svc.ListAdvice(context.Background(), userID, 2, 0)
	if err != nil {
		t.Fatalf("ListAdvice: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(results) != 2 {
		t.Fatalf("page size = %d, want 2", len(results))
	}
	if !results[0].CreatedAt.After(results[1].CreatedAt) {
		t.Error("results not ordered most recent first")
	}
	for _, r := range results {
		if r.Disclaimer != Disclaimer {
			t.Error("disclaimer missing from listed result")
		}
	}
}

func TestSurveyAdvisorAdapter(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc, repo := newTestService(gen, adviceTemplate())
	advisor := NewSurveyAdvisor(svc)

	tpl := adviceTemplate()
	answers := []survey.Answer{
		{QuestionID: "smoker", Type: survey.TypeBoolean, Bool: true},
		{QuestionID: "complaint", Type: survey.TypeText, Text: "headache"},
	}
	err := advisor.AdviseSubmission(context.Background(), uuid.New(), tpl, answers,
		survey.Result{Score: 1, Interpretation: "high"})
	if err != nil {
		t.Fatalf("AdviseSubmission: %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.records))
	}
	if !strings.Contains(gen.lastUser, "Main complaint: headache") {
		t.Errorf("auto prompt missing text line:\n%s", gen.lastUser)
	}
}
