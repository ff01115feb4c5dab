package survey

import (
	"math"
	"testing"
)

func mustEvaluate(t *testing.T, tpl *Template, raw map[string]any) *Result {
	t.Helper()
	result, err := Evaluate(tpl, raw)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return result
}

func TestScoreSumBooleanAndScale(t *testing.T) {
	tpl := riskTemplate()

	result := mustEvaluate(t, tpl, map[string]any{"smoker": true, "severity": float64(3)})
	if result.Score != 4 {
		t.Errorf("score = %v, want 4", result.Score)
	}
	if result.Interpretation != "high" {
		t.Errorf("interpretation = %q, want high", result.Interpretation)
	}
}

func TestScoreDefaultedAnswers(t *testing.T) {
	tpl := riskTemplate()

	// Missing scale answer defaults to min, so only the boolean contributes.
	result := mustEvaluate(t, tpl, map[string]any{"smoker": true})
	if result.Score != 1 {
		t.Errorf("score = %v, want 1", result.Score)
	}
	if result.Interpretation != "low" {
		t.Errorf("interpretation = %q, want low", result.Interpretation)
	}
}

func TestScoreDeterministic(t *testing.T) {
	tpl := riskTemplate()
	raw := map[string]any{"smoker": true, "severity": float64(2)}

	first := mustEvaluate(t, tpl, raw)
	for i := 0; i < 5; i++ {
		if got := mustEvaluate(t, tpl, raw); got.Score != first.Score || got.Interpretation != first.Interpretation {
			t.Fatalf("run %d produced %+v, first run %+v", i, got, first)
		}
	}
}

func TestScoreSelectPoints(t *testing.T) {
	tpl := &Template{
		Code: "SEL",
		Sections: []Section{{
			ID: "main",
			Questions: []Question{{
				ID:   "grade",
				Type: TypeSelect,
				Options: []Option{
					{Value: 1, Label: "mild"},
					{Value: 2, Label: "severe", Points: fp(10)},
				},
			}},
		}},
		Bands: []Band{{Min: 0, Label: "any"}},
	}

	// Option without points contributes its raw value.
	if result := mustEvaluate(t, tpl, map[string]any{"grade": float64(1)}); result.Score != 1 {
		t.Errorf("score = %v, want 1", result.Score)
	}
	// Explicit points override the value.
	if result := mustEvaluate(t, tpl, map[string]any{"grade": float64(2)}); result.Score != 10 {
		t.Errorf("score = %v, want 10", result.Score)
	}
}

func TestScoreTextContributesNothing(t *testing.T) {
	tpl := riskTemplate()
	tpl.Sections[0].Questions = append(tpl.Sections[0].Questions,
		Question{ID: "notes", Type: TypeText, Score: 99})

	result := mustEvaluate(t, tpl, map[string]any{"smoker": true, "severity": float64(0), "notes": "long note"})
	if result.Score != 1 {
		t.Errorf("score = %v, want 1 (text must not contribute)", result.Score)
	}
}

func TestScoreNumericWeight(t *testing.T) {
	tpl := &Template{
		Code: "W",
		Sections: []Section{{
			ID: "main",
			Questions: []Question{
				{ID: "v", Type: TypeNumber, Min: fp(0), Max: fp(100), Score: 2.5},
			},
		}},
		Bands: []Band{{Min: 0, Label: "any"}},
	}
	result := mustEvaluate(t, tpl, map[string]any{"v": float64(4)})
	if result.Score != 10 {
		t.Errorf("score = %v, want 10 (4 x 2.5)", result.Score)
	}
}

func TestScoreUnknownQuestion(t *testing.T) {
	tpl := riskTemplate()
	_, err := Score(tpl, []Answer{{QuestionID: "ghost", Type: TypeBoolean, Bool: true}})
	if !IsKind(err, KindUnknownQuestion) {
		t.Errorf("expected unknown_question, got %v", err)
	}
}

func TestScoreUnknownMethod(t *testing.T) {
	tpl := riskTemplate()
	tpl.Scoring.Method = "matrix"
	_, err := Score(tpl, nil)
	if !IsKind(err, KindScoringRuleMissing) {
		t.Errorf("expected scoring_rule_missing, got %v", err)
	}
}

func TestScoreLinearBASDAI(t *testing.T) {
	tpl := basdaiTemplate()
	raw := map[string]any{
		"q1": float64(5), "q2": float64(6), "q3": float64(4),
		"q4": float64(5), "q5": float64(8), "q6": float64(2),
	}

	result := mustEvaluate(t, tpl, raw)
	want := (5.0 + 6 + 4 + 5 + (8.0+2)/2) / 5
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", result.Score, want)
	}
	if result.Interpretation != "high_activity" {
		t.Errorf("interpretation = %q, want high_activity", result.Interpretation)
	}
}

func TestScoreLinearDAS28CRP(t *testing.T) {
	tpl := das28CRPTemplate()
	raw := map[string]any{
		"tjc28": float64(4), "sjc28": float64(2),
		"crp": float64(12), "gh": float64(50),
	}

	result := mustEvaluate(t, tpl, raw)
	want := 0.56*math.Sqrt(4) + 0.28*math.Sqrt(2) + 0.36*math.Log(13) + 0.014*50 + 0.96
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", result.Score, want)
	}
	if result.Interpretation != "moderate_activity" {
		t.Errorf("interpretation = %q, want moderate_activity", result.Interpretation)
	}
}

func TestScoreLinearMissingTerm(t *testing.T) {
	tpl := basdaiTemplate()
	tpl.Scoring.Terms = append(tpl.Scoring.Terms, Term{QuestionID: "q7", Coefficient: 1})

	answers, err := Normalize(tpl, map[string]any{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	_, err = Score(tpl, answers)
	if !IsKind(err, KindScoringRuleMissing) {
		t.Errorf("expected scoring_rule_missing, got %v", err)
	}
}

func TestScoreLinearUnknownTransform(t *testing.T) {
	tpl := das28CRPTemplate()
	tpl.Scoring.Terms[0].Transform = "cube"

	answers, err := Normalize(tpl, map[string]any{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	_, err = Score(tpl, answers)
	if !IsKind(err, KindScoringRuleMissing) {
		t.Errorf("expected scoring_rule_missing, got %v", err)
	}
}
