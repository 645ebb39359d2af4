package newcase

import (
	"errors"

	"moderation-bot/model"
)

// Validation errors reported inline to the moderator; the form stays open
// and retryable after either.
var (
	ErrNoAction   = errors.New("no action selected")
	ErrNoDuration = errors.New("timeout requires a duration")
)

// Form is the mutable state of one guided case creation. The selection and
// submit listeners of the same session share it; only a submit ever turns
// it into a persisted record.
type Form struct {
	CaseID    int64
	TargetID  string
	TargetTag string
	Reason    string
	Proof     string
	TimeInput string

	Minutes     int
	HasDuration bool

	// Action is the pending selection. It may be changed any number of
	// times before submit.
	Action string
}

// Validate checks whether the form can be submitted as-is.
func (f *Form) Validate() error {
	if f.Action == "" {
		return ErrNoAction
	}
	if f.Action == model.ActionTimeout && !f.HasDuration {
		return ErrNoDuration
	}
	return nil
}
