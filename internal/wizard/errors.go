package wizard

import "errors"

var (
	ErrSessionSubmitted = errors.New("wizard: session is already submitted")
	ErrNoPreviousStep   = errors.New("wizard: no previous step")
	ErrTenantMismatch   = errors.New("wizard: session belongs to another tenant")
	ErrUnknownStep      = errors.New("wizard: current step is not in the service plan")
)
