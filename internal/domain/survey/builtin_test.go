package survey

import (
	"math"
	"testing"
)

func TestBuiltinTemplatesWellFormed(t *testing.T) {
	for _, tpl := range BuiltinTemplates() {
		t.Run(tpl.Code, func(t *testing.T) {
			if tpl.Code == "" || tpl.Name == "" {
				t.Fatal("template missing code or name")
			}
			if len(tpl.Bands) == 0 {
				t.Fatal("template has no interpretation bands")
			}

			seen := map[string]bool{}
			for _, q := range tpl.Questions() {
				if seen[q.ID] {
					t.Errorf("duplicate question id %q", q.ID)
				}
				seen[q.ID] = true
				if min, max := q.Bounds(); min > max {
					t.Errorf("question %q: min %v above max %v", q.ID, min, max)
				}
				if q.Type == TypeSelect && len(q.Options) == 0 {
					t.Errorf("select question %q has no options", q.ID)
				}
			}

			// Bands must be contiguous and ordered; the final band unbounded
			// or closed covers the top of the range.
			for i := 1; i < len(tpl.Bands); i++ {
				prev, cur := tpl.Bands[i-1], tpl.Bands[i]
				if prev.Max == nil {
					t.Errorf("band %d is unbounded but not last", i-1)
					continue
				}
				if *prev.Max != cur.Min {
					t.Errorf("bands %d and %d not contiguous: %v vs %v", i-1, i, *prev.Max, cur.Min)
				}
			}
		})
	}
}

// Every achievable score must land in exactly one band.
func TestBuiltinBandsExhaustive(t *testing.T) {
	for _, tpl := range BuiltinTemplates() {
		t.Run(tpl.Code, func(t *testing.T) {
			lo := tpl.Bands[0].Min
			hi := lo + 50
			if last := tpl.Bands[len(tpl.Bands)-1]; last.Max != nil {
				hi = *last.Max
			}
			for score := lo; score <= hi; score += 0.25 {
				matches := 0
				for i, b := range tpl.Bands {
					contains := score >= b.Min &&
						(b.Max == nil || score < *b.Max ||
							(i == len(tpl.Bands)-1 && score == *b.Max))
					if contains {
						matches++
					}
				}
				if matches != 1 {
					t.Fatalf("score %v matches %d bands", score, matches)
				}
			}
		})
	}
}

func TestRCRIScoring(t *testing.T) {
	tpl := rcriTemplate()

	tests := []struct {
		name     string
		raw      map[string]any
		score    float64
		category string
	}{
		{"no factors", map[string]any{}, 0, "class_i"},
		{"one factor", map[string]any{"ihd": true}, 1, "class_ii"},
		{"two factors", map[string]any{"ihd": true, "chf": true}, 2, "class_iii"},
		{
			"all factors",
			map[string]any{
				"high_risk_surgery": true, "ihd": true, "chf": true,
				"cvd": true, "insulin_dm": true, "ckd": true,
			},
			6, "class_iv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustEvaluate(t, tpl, tt.raw)
			if result.Score != tt.score {
				t.Errorf("score = %v, want %v", result.Score, tt.score)
			}
			if result.Interpretation != tt.category {
				t.Errorf("interpretation = %q, want %q", result.Interpretation, tt.category)
			}
		})
	}
}

func TestGoldmanScoring(t *testing.T) {
	tpl := goldmanTemplate()

	// S3/JVD (11) + emergency operation (4) = 15, class III.
	result := mustEvaluate(t, tpl, map[string]any{"s3_jvd": true, "emergency": true})
	if result.Score != 15 {
		t.Errorf("score = %v, want 15", result.Score)
	}
	if result.Interpretation != "class_iii" {
		t.Errorf("interpretation = %q, want class_iii", result.Interpretation)
	}
}

func TestCapriniScoring(t *testing.T) {
	tpl := capriniTemplate()

	// Age 61-74 (2) + malignancy (2) + VTE history (3) = 7, high risk.
	result := mustEvaluate(t, tpl, map[string]any{
		"age_61_74": true, "malignancy": true, "vte_history": true,
	})
	if result.Score != 7 {
		t.Errorf("score = %v, want 7", result.Score)
	}
	if result.Interpretation != "high" {
		t.Errorf("interpretation = %q, want high", result.Interpretation)
	}

	result = mustEvaluate(t, tpl, map[string]any{})
	if result.Score != 0 || result.Interpretation != "very_low" {
		t.Errorf("empty answers gave %+v, want score 0 very_low", result)
	}
}

func TestBVASScoring(t *testing.T) {
	tpl := bvasTemplate()

	// Purpura (2) + bloody nasal discharge (6) + haematuria (6) = 14, moderate.
	result := mustEvaluate(t, tpl, map[string]any{
		"purpura": true, "bloody_nasal_discharge": true, "haematuria": true,
	})
	if result.Score != 14 {
		t.Errorf("score = %v, want 14", result.Score)
	}
	if result.Interpretation != "moderate_activity" {
		t.Errorf("interpretation = %q, want moderate_activity", result.Interpretation)
	}

	// Adding mononeuritis multiplex (9) crosses into high activity.
	result = mustEvaluate(t, tpl, map[string]any{
		"purpura": true, "bloody_nasal_discharge": true, "haematuria": true,
		"mononeuritis_multiplex": true,
	})
	if result.Score != 23 || result.Interpretation != "high_activity" {
		t.Errorf("got %v %q, want 23 high_activity", result.Score, result.Interpretation)
	}

	result = mustEvaluate(t, tpl, map[string]any{})
	if result.Score != 0 || result.Interpretation != "remission" {
		t.Errorf("empty answers gave %v %q, want 0 remission", result.Score, result.Interpretation)
	}
}

func TestASAScoring(t *testing.T) {
	tpl := asaTemplate()

	result := mustEvaluate(t, tpl, map[string]any{"asa_class": float64(3)})
	if result.Score != 3 {
		t.Errorf("score = %v, want 3", result.Score)
	}
	if result.Interpretation != "asa_3" {
		t.Errorf("interpretation = %q, want asa_3", result.Interpretation)
	}

	// Class 6 hits the closed top of the final achievable range.
	result = mustEvaluate(t, tpl, map[string]any{"asa_class": float64(6)})
	if result.Interpretation != "asa_6" {
		t.Errorf("interpretation = %q, want asa_6", result.Interpretation)
	}
}

func TestDAS28CRPRemission(t *testing.T) {
	tpl := das28CRPTemplate()

	result := mustEvaluate(t, tpl, map[string]any{
		"tjc28": float64(0), "sjc28": float64(0), "crp": float64(1), "gh": float64(10),
	})
	want := 0.36*math.Log(2) + 0.014*10 + 0.96
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", result.Score, want)
	}
	if result.Interpretation != "remission" {
		t.Errorf("interpretation = %q, want remission", result.Interpretation)
	}
}
