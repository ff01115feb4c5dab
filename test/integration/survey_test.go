package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinscore/clinscore/internal/domain/survey"
)

func newSurveyService() *survey.Service {
	return survey.NewService(
		survey.NewTemplateRepo(globalDB.Pool),
		survey.NewResponseRepo(globalDB.Pool),
		zerolog.Nop(),
	)
}

func TestSeededTemplates(t *testing.T) {
	ctx := context.Background()
	svc := newSurveyService()

	summaries, err := svc.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(summaries) != 7 {
		t.Fatalf("expected 7 seeded templates, got %d", len(summaries))
	}

	tmpl, err := svc.GetTemplateByCode(ctx, "RCRI")
	if err != nil {
		t.Fatalf("get RCRI: %v", err)
	}
	if got := len(tmpl.Questions()); got != 6 {
		t.Errorf("RCRI should have 6 questions, got %d", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()

	// Reseeding must update in place, not duplicate.
	if err := seedTemplates(ctx, globalDB.Pool); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var count int
	err := globalDB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_template`).Scan(&count)
	if err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if count != 7 {
		t.Errorf("expected 7 template rows after reseed, got %d", count)
	}
}

func TestSubmitAndReadResponse(t *testing.T) {
	ctx := context.Background()
	truncate(t, ctx, "survey_response")
	svc := newSurveyService()

	tmpl, err := svc.GetTemplateByCode(ctx, "RCRI")
	if err != nil {
		t.Fatalf("get RCRI: %v", err)
	}

	userID := uuid.New()
	resp, err := svc.SubmitResponse(ctx, userID, tmpl.ID, map[string]any{
		"high_risk_surgery": true,
		"ihd":               true,
		"chf":               false,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Score != 2 {
		t.Errorf("expected score 2, got %v", resp.Score)
	}
	if resp.Interpretation != "class_iii" {
		t.Errorf("expected class_iii, got %q", resp.Interpretation)
	}

	got, err := svc.GetResponse(ctx, userID, resp.ID)
	if err != nil {
		t.Fatalf("get response: %v", err)
	}
	if got.Score != resp.Score || got.Interpretation != resp.Interpretation {
		t.Errorf("stored response differs: %+v vs %+v", got, resp)
	}
}

func TestResponseOwnership(t *testing.T) {
	ctx := context.Background()
	truncate(t, ctx, "survey_response")
	svc := newSurveyService()

	tmpl, err := svc.GetTemplateByCode(ctx, "RCRI")
	if err != nil {
		t.Fatalf("get RCRI: %v", err)
	}

	owner := uuid.New()
	resp, err := svc.SubmitResponse(ctx, owner, tmpl.ID, map[string]any{"ihd": true})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A different user must not be able to read the response.
	if _, err := svc.GetResponse(ctx, uuid.New(), resp.ID); !survey.IsKind(err, survey.KindNotFound) {
		t.Errorf("expected not_found for foreign user, got %v", err)
	}

	list, total, err := svc.ListResponses(ctx, owner, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("expected 1 response for owner, got total=%d len=%d", total, len(list))
	}
}
