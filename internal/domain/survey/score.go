package survey

import "math"

// Score computes the aggregate score for a normalized answer set. It is a
// pure fold over per-question terms; no term depends on another question's
// value and the engine does not round. Rule selection is driven entirely by
// the template's Scoring table, so new scales are added as data.
func Score(t *Template, answers []Answer) (float64, error) {
	byID := make(map[string]Question)
	for _, q := range t.Questions() {
		byID[q.ID] = q
	}

	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return 0, newError(KindUnknownQuestion, "answer references unknown question %q", a.QuestionID)
		}
	}

	switch t.Scoring.Method {
	case "", MethodSum:
		return scoreSum(byID, answers)
	case MethodLinear:
		return scoreLinear(t, answers)
	default:
		return 0, newError(KindScoringRuleMissing, "unknown scoring method %q", t.Scoring.Method)
	}
}

// scoreSum adds weighted per-question contributions: booleans contribute
// their weight when true, numeric answers contribute value times weight,
// select answers contribute the chosen option's points, text contributes
// nothing.
func scoreSum(byID map[string]Question, answers []Answer) (float64, error) {
	var total float64
	for _, a := range answers {
		q := byID[a.QuestionID]
		switch q.Type {
		case TypeBoolean:
			if a.Bool {
				total += q.Weight()
			}
		case TypeNumber, TypeScale, TypeVAS, TypeVAS100:
			total += a.Number * q.Weight()
		case TypeSelect:
			pts, err := optionPoints(q, a.Number)
			if err != nil {
				return 0, err
			}
			total += pts
		case TypeText:
			// informational only
		default:
			return 0, newError(KindScoringRuleMissing, "no scoring rule for question type %q", q.Type)
		}
	}
	return total, nil
}

// scoreLinear computes Σ coefficient·transform(answer) + constant.
func scoreLinear(t *Template, answers []Answer) (float64, error) {
	byID := make(map[string]Answer, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a
	}

	total := t.Scoring.Constant
	for _, term := range t.Scoring.Terms {
		a, ok := byID[term.QuestionID]
		if !ok {
			return 0, newError(KindScoringRuleMissing, "linear term references missing question %q", term.QuestionID)
		}

		v, err := applyTransform(term.Transform, a.Number)
		if err != nil {
			return 0, err
		}
		total += term.Coefficient * v
	}
	return total, nil
}

func applyTransform(transform string, v float64) (float64, error) {
	switch transform {
	case "", TransformIdentity:
		return v, nil
	case TransformSqrt:
		return math.Sqrt(v), nil
	case TransformLog1p:
		return math.Log1p(v), nil
	default:
		return 0, newError(KindScoringRuleMissing, "unknown transform %q", transform)
	}
}

func optionPoints(q Question, value float64) (float64, error) {
	for _, opt := range q.Options {
		if opt.Value == value {
			if opt.Points != nil {
				return *opt.Points, nil
			}
			return opt.Value, nil
		}
	}
	return 0, newError(KindScoringRuleMissing, "question %q: no option for value %v", q.ID, value)
}
