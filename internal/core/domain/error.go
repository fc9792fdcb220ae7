package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")

	// * Business errors.
	ErrAdmissionDenied  = errors.New("request rate over limit")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotPayable  = errors.New("order is not payable in its current status")
	ErrDuplicatePayment = errors.New("payment already exists")
	ErrUnknownPayment   = errors.New("payment has no created event")

	// * Submission outcomes, recorded in the event log only.
	ErrSubmissionFailed = errors.New("payment submission failed")
	ErrDeadlineExceeded = errors.New("payment completed after deadline")
)
