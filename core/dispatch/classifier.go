package dispatch

import "github.com/dmitrymomot/psfs/core/failure"

// Outcome is the terminal handler chosen for a failure.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeNeedsConfiguration
	OutcomeNotAuthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNeedsConfiguration:
		return "needs_configuration"
	case OutcomeNotAuthorized:
		return "not_authorized"
	default:
		return "not_found"
	}
}

// Classify maps err to an outcome by its declared kind. Configuration wins
// over security, security over everything else.
func Classify(err error) Outcome {
	switch failure.KindOf(err) {
	case failure.KindConfiguration:
		return OutcomeNeedsConfiguration
	case failure.KindSecurity:
		return OutcomeNotAuthorized
	default:
		return OutcomeNotFound
	}
}
