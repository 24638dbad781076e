package scene

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Report collects the outcome of validating a manifest.
// Errors make a scene unplayable, warnings do not.
type Report struct {
	Errors   []error
	Warnings []string
}

// OK reports whether the scene can be played.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err joins every error into one.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

// Validate checks slot structure and line lengths.
// Lines over maxWords words are warnings. Lines over MaxLineChars characters are errors.
func (m *Manifest) Validate(maxWords int) *Report {
	report := &Report{}

	if err := m.checkSlots(); err != nil {
		report.Errors = append(report.Errors, err)
	}

	for _, s := range m.Slots {
		if s.Line == "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("slot %s has no line", s.Name))
			continue
		}

		if n := utf8.RuneCountInString(s.Line); n > MaxLineChars {
			report.Errors = append(report.Errors, fmt.Errorf("%w: slot %s has %d characters, limit is %d", ErrLineTooLong, s.Name, n, MaxLineChars))
		}

		if words := Words(s.Line); maxWords > 0 && words > maxWords {
			report.Warnings = append(report.Warnings, fmt.Sprintf("slot %s has %d words, aim for %d or fewer", s.Name, words, maxWords))
		}
	}

	return report
}
