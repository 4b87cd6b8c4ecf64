package editor

import (
	"github.com/goliatone/go-formedit/pkg/condition"
)

// Preview returns the identifiers of the fields a respondent would see for
// answers, in tree order. It does not change the view mode.
func (s *State) Preview(answers map[string]any) ([]string, error) {
	if s.module == nil {
		return nil, ErrNoModule
	}
	return condition.Visible(*s.module, answers)
}
