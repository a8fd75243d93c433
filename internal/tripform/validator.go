// Package tripform validates the trip creation draft before it is handed to
// the trip generator.
package tripform

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/utils"
)

const (
	MinDuration = 1
	MaxDuration = 10

	// invalidDuration stands for typed input that is not a whole number of
	// days; it fails the range check rather than the presence check.
	invalidDuration = -1
)

// ValidationError carries the message shown inline above the submit button.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrIncomplete = &ValidationError{Message: "Please enter all the fields."}
	ErrDuration   = &ValidationError{Message: "Duration must be between 1 and 10 days"}
)

// Validate checks presence of all six fields, then the duration range. Only
// the first failure is reported.
func Validate(d domain.TripFormData) error {
	if d.Country == "" ||
		d.Budget == "" ||
		d.Duration == 0 ||
		d.GroupType == "" ||
		d.Interest == "" ||
		d.TravelStyle == "" {
		return ErrIncomplete
	}
	if d.Duration < MinDuration || d.Duration > MaxDuration {
		return ErrDuration
	}
	return nil
}

// FromValues reads a posted form. Only an empty duration reads as missing;
// anything else that is not a whole number is reported as out of range.
func FromValues(v url.Values) domain.TripFormData {
	raw := strings.TrimSpace(v.Get("duration"))
	return domain.TripFormData{
		Country:       utils.NormalizeString(v.Get("country")),
		TravelStyle:   utils.NormalizeString(v.Get("travelStyle")),
		Interest:      utils.NormalizeString(v.Get("interest")),
		Budget:        utils.NormalizeString(v.Get("budget")),
		Duration:      parseDuration(raw),
		GroupType:     utils.NormalizeString(v.Get("groupType")),
		DurationInput: raw,
	}
}

func parseDuration(raw string) int {
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	// "5.0" is still five days
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && f >= MinDuration && f <= MaxDuration {
		return int(f)
	}
	return invalidDuration
}

type State int

const (
	Idle State = iota
	Validating
	Failed
	Submitting
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Failed:
		return "error"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Submission tracks one pass of the form through
// idle -> validating -> (error | submitting) -> idle.
type Submission struct {
	Data  domain.TripFormData
	State State
	Error string
}

func NewSubmission(d domain.TripFormData) *Submission {
	return &Submission{Data: d, State: Idle}
}

// Check validates the draft and reports whether submission may proceed.
func (s *Submission) Check() bool {
	s.State = Validating
	if err := Validate(s.Data); err != nil {
		s.State = Failed
		s.Error = err.Error()
		return false
	}
	s.Error = ""
	s.State = Submitting
	return true
}

// Finish returns the submission to idle. A validation message is kept so it
// can still be rendered.
func (s *Submission) Finish() {
	s.State = Idle
}
