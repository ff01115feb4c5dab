package survey

import (
	"math"
	"testing"
)

// riskTemplate is the fixture used across the engine tests: one boolean
// question with weight 1 and one 0-4 scale question.
func riskTemplate() *Template {
	return &Template{
		Code: "RISK",
		Name: "Risk Assessment",
		Sections: []Section{
			{
				ID: "main",
				Questions: []Question{
					{ID: "smoker", Text: "Current smoker", Type: TypeBoolean, Score: 1},
					{ID: "severity", Text: "Symptom severity", Type: TypeScale, Min: fp(0), Max: fp(4), Score: 1},
				},
			},
		},
		Scoring: Scoring{Method: MethodSum},
		Bands: []Band{
			{Min: 0, Max: fp(2), Label: "low"},
			{Min: 2, Max: fp(4), Label: "moderate"},
			{Min: 4, Label: "high"},
		},
	}
}

func TestNormalizeOrderAndTypes(t *testing.T) {
	tpl := riskTemplate()
	answers, err := Normalize(tpl, map[string]any{"smoker": true, "severity": float64(3)})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].QuestionID != "smoker" || !answers[0].Bool {
		t.Errorf("unexpected first answer %+v", answers[0])
	}
	if answers[1].QuestionID != "severity" || answers[1].Number != 3 {
		t.Errorf("unexpected second answer %+v", answers[1])
	}
}

func TestNormalizeDefaultsMissing(t *testing.T) {
	tpl := riskTemplate()
	tpl.Sections[0].Questions = append(tpl.Sections[0].Questions,
		Question{ID: "notes", Text: "Notes", Type: TypeText})

	answers, err := Normalize(tpl, map[string]any{"smoker": true})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if answers[1].Number != 0 {
		t.Errorf("expected numeric default min (0), got %v", answers[1].Number)
	}
	if answers[2].Text != "" {
		t.Errorf("expected empty text default, got %q", answers[2].Text)
	}

	answers, err = Normalize(tpl, map[string]any{"severity": float64(1)})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if answers[0].Bool {
		t.Error("expected boolean default false")
	}
}

func TestNormalizeRangeBoundaries(t *testing.T) {
	tpl := riskTemplate()

	for _, v := range []float64{0, 4} {
		if _, err := Normalize(tpl, map[string]any{"severity": v}); err != nil {
			t.Errorf("boundary value %v should be accepted: %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 4.1, math.NaN(), math.Inf(1)} {
		_, err := Normalize(tpl, map[string]any{"severity": v})
		if !IsKind(err, KindValidation) {
			t.Errorf("value %v should fail validation, got %v", v, err)
		}
	}
}

func TestNormalizeTypeMismatch(t *testing.T) {
	tpl := riskTemplate()

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"string for boolean", map[string]any{"smoker": "yes"}},
		{"number for boolean", map[string]any{"smoker": float64(1)}},
		{"string for numeric", map[string]any{"severity": "3"}},
		{"bool for numeric", map[string]any{"severity": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tpl, tt.raw)
			if !IsKind(err, KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNormalizeSelect(t *testing.T) {
	tpl := &Template{
		Code: "SEL",
		Sections: []Section{{
			ID: "main",
			Questions: []Question{{
				ID:   "choice",
				Type: TypeSelect,
				Options: []Option{
					{Value: 1, Label: "one"},
					{Value: 2, Label: "two"},
				},
			}},
		}},
	}

	if _, err := Normalize(tpl, map[string]any{"choice": float64(2)}); err != nil {
		t.Fatalf("valid option rejected: %v", err)
	}

	_, err := Normalize(tpl, map[string]any{"choice": float64(3)})
	if !IsKind(err, KindValidation) {
		t.Errorf("invalid option should fail validation, got %v", err)
	}

	_, err = Normalize(tpl, map[string]any{})
	if !IsKind(err, KindValidation) {
		t.Errorf("missing select answer should fail validation, got %v", err)
	}
}

func TestNormalizeRequiredText(t *testing.T) {
	tpl := &Template{
		Code: "TXT",
		Sections: []Section{{
			ID: "main",
			Questions: []Question{
				{ID: "complaint", Type: TypeText, Required: true},
				{ID: "extra", Type: TypeText},
			},
		}},
	}

	_, err := Normalize(tpl, map[string]any{"complaint": ""})
	if !IsKind(err, KindValidation) {
		t.Errorf("empty required text should fail, got %v", err)
	}

	answers, err := Normalize(tpl, map[string]any{"complaint": "back pain"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if answers[0].Text != "back pain" || answers[1].Text != "" {
		t.Errorf("unexpected text answers %+v", answers)
	}
}

func TestNormalizeVAS100Default(t *testing.T) {
	q := Question{ID: "gh", Type: TypeVAS100}
	min, max := q.Bounds()
	if min != 0 || max != 100 {
		t.Fatalf("vas100 bounds = [%v, %v], want [0, 100]", min, max)
	}

	tpl := &Template{
		Code:     "VAS",
		Sections: []Section{{ID: "main", Questions: []Question{q}}},
	}
	if _, err := Normalize(tpl, map[string]any{"gh": float64(85)}); err != nil {
		t.Errorf("value 85 should be in range for vas100: %v", err)
	}
	_, err := Normalize(tpl, map[string]any{"gh": float64(101)})
	if !IsKind(err, KindValidation) {
		t.Errorf("value 101 should fail for vas100, got %v", err)
	}
}

func TestNormalizeIgnoresUnknownKeys(t *testing.T) {
	tpl := riskTemplate()
	answers, err := Normalize(tpl, map[string]any{"smoker": true, "severity": float64(1), "stray": "x"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
}
