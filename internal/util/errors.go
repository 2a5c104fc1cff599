package util

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Controllers map the four base errors to HTTP
// statuses with errors.Is; the named domain errors below wrap one of the
// base errors so callers only ever have to branch on the taxonomy.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAccessDenied = errors.New("access denied")
	ErrConflict     = errors.New("conflict: record changed since last read")
	ErrNotFound     = errors.New("record not found")
)

var (
	ErrEmailRegistered     = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotEnrolled         = fmt.Errorf("%w: not enrolled in this course", ErrAccessDenied)
	ErrAlreadyEnrolled     = fmt.Errorf("%w: already enrolled in this course", ErrConflict)
	ErrLessonLocked        = fmt.Errorf("%w: lesson is locked", ErrAccessDenied)
	ErrRetakeExhausted     = fmt.Errorf("%w: retake already used for this quiz", ErrValidation)
	ErrReviewPending       = fmt.Errorf("%w: submission is awaiting review", ErrConflict)
	ErrNotReviewable       = fmt.Errorf("%w: submission is not awaiting review", ErrConflict)
	ErrQuizAlreadyPassed   = fmt.Errorf("%w: quiz already passed", ErrValidation)
	ErrCertificateNotReady = fmt.Errorf("%w: certificate requirements not met", ErrAccessDenied)
)
