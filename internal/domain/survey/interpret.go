package survey

// Interpret maps a score to the label of the first band containing it.
// Bands are half-open [min, max); a boundary value belongs to the band that
// declares it as its lower edge. The final band, and any band with no upper
// bound, is closed at the top. Template authoring keeps bands contiguous and
// exhaustive; a score outside every band is a malformed template.
func Interpret(t *Template, score float64) (string, error) {
	i, err := bandIndex(t, score)
	if err != nil {
		return "", err
	}
	return t.Bands[i].Label, nil
}

// BandFor returns the full band matched by a score, for callers that need
// the description alongside the label.
func BandFor(t *Template, score float64) (Band, error) {
	i, err := bandIndex(t, score)
	if err != nil {
		return Band{}, err
	}
	return t.Bands[i], nil
}

func bandIndex(t *Template, score float64) (int, error) {
	for i, b := range t.Bands {
		if score < b.Min {
			continue
		}
		if b.Max == nil {
			return i, nil
		}
		if score < *b.Max {
			return i, nil
		}
		if i == len(t.Bands)-1 && score == *b.Max {
			return i, nil
		}
	}
	return 0, newError(KindNoBandMatch, "no interpretation band for score %v in template %q", score, t.Code)
}
