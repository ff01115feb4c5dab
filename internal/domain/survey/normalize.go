package survey

import (
	"encoding/json"
	"math"
)

// Normalize validates a raw answer set against the template and returns one
// typed answer per template question, in template question order. Missing
// answers are synthesized from type defaults: boolean false, text "",
// numeric types the question minimum. Raw keys that do not match any
// template question are ignored.
func Normalize(t *Template, raw map[string]any) ([]Answer, error) {
	questions := t.Questions()
	answers := make([]Answer, 0, len(questions))

	for _, q := range questions {
		val, present := raw[q.ID]

		a := Answer{QuestionID: q.ID, Type: q.Type}

		switch q.Type {
		case TypeBoolean:
			if !present {
				a.Bool = false
				break
			}
			b, ok := val.(bool)
			if !ok {
				return nil, newError(KindValidation, "question %q: expected boolean, got %T", q.ID, val)
			}
			a.Bool = b

		case TypeNumber, TypeScale, TypeVAS, TypeVAS100:
			min, max := q.Bounds()
			if !present {
				a.Number = min
				break
			}
			f, ok := toNumber(val)
			if !ok {
				return nil, newError(KindValidation, "question %q: expected number, got %T", q.ID, val)
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, newError(KindValidation, "question %q: value is not finite", q.ID)
			}
			if f < min || f > max {
				return nil, newError(KindValidation, "question %q: %v outside range [%v, %v]", q.ID, f, min, max)
			}
			a.Number = f

		case TypeSelect:
			if !present {
				return nil, newError(KindValidation, "question %q: answer required for select question", q.ID)
			}
			f, ok := toNumber(val)
			if !ok {
				return nil, newError(KindValidation, "question %q: expected option value, got %T", q.ID, val)
			}
			if !hasOption(q, f) {
				return nil, newError(KindValidation, "question %q: %v is not a valid option", q.ID, f)
			}
			a.Number = f

		case TypeText:
			if !present {
				if q.Required {
					return nil, newError(KindValidation, "question %q: answer required", q.ID)
				}
				a.Text = ""
				break
			}
			s, ok := val.(string)
			if !ok {
				return nil, newError(KindValidation, "question %q: expected string, got %T", q.ID, val)
			}
			if q.Required && s == "" {
				return nil, newError(KindValidation, "question %q: answer required", q.ID)
			}
			a.Text = s

		default:
			return nil, newError(KindValidation, "question %q: unknown type %q", q.ID, q.Type)
		}

		answers = append(answers, a)
	}

	return answers, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func hasOption(q Question, value float64) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
