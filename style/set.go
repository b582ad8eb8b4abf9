package style

// Set is the group of style IDs governing one run of characters. A run
// continues only while every ID in the set stays the same.
//
// The zero Set is invalid: a run appended with an invalid set is a
// logic defect elsewhere in the pipeline, and the assembler emits it
// with a warning marker instead of failing the page.
type Set struct {
	Valid bool

	FontSize      ID
	LetterSpacing ID
	WordSpacing   ID
	FillColor     ID
	StrokeColor   ID
	Transform     ID
}

// Equals reports whether two sets reference the same style IDs.
// An invalid set never equals anything, including another invalid set,
// so defective runs are never merged.
func (s Set) Equals(other Set) bool {
	if !s.Valid || !other.Valid {
		return false
	}
	return s == other
}

// Classes returns the stylesheet class names for the set, in a fixed
// order, resolving each ID through the registry.
func (s Set) Classes(r *Registry) []string {
	if !s.Valid {
		return nil
	}
	ids := []ID{s.FontSize, s.LetterSpacing, s.WordSpacing, s.FillColor, s.StrokeColor, s.Transform}
	classes := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := r.ClassName(id); name != "" {
			classes = append(classes, name)
		}
	}
	return classes
}
