package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error wraps exactly one of these so front ends
// can map whole families with a single errors.Is check.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrPersistence        = errors.New("persistence failed")
)

var (
	ErrInvalidCard      = fmt.Errorf("%w: card number must be 8 alphanumerics with at least one letter and one digit", ErrValidation)
	ErrInvalidEventCode = fmt.Errorf("%w: event code must be 4-10 alphanumerics with at least one letter and one digit", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrEndDateInPast    = fmt.Errorf("%w: end date is before today", ErrValidation)
	ErrNegativePoints   = fmt.Errorf("%w: points must not be negative", ErrValidation)

	ErrGamerNotFound      = fmt.Errorf("%w: gamer", ErrNotFound)
	ErrCardNotBound       = fmt.Errorf("%w: no card bound", ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("%w: event", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("%w: task", ErrNotFound)
	ErrPrizeNotFound      = fmt.Errorf("%w: prize", ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("%w: no pending submission", ErrNotFound)

	ErrCardTaken     = fmt.Errorf("%w: card number already bound to another gamer", ErrConflict)
	ErrEventExists   = fmt.Errorf("%w: event code already exists", ErrConflict)
	ErrAlreadyJoined = fmt.Errorf("%w: already joined this event", ErrConflict)
	ErrTaskCompleted = fmt.Errorf("%w: task already completed by this gamer", ErrConflict)
	ErrGamerBlocked  = fmt.Errorf("%w: gamer is blocked", ErrConflict)
)
