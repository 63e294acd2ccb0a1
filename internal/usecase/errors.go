package usecase

import "errors"

// Caller-visible error codes. The host layer maps these onto HTTP statuses;
// nothing in the engine ever surfaces a failure without a code attached.
const (
	CodeLeadNotFound      = "LEAD_NOT_FOUND"
	CodeEmployeeNotFound  = "EMPLOYEE_NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeForbidden         = "FORBIDDEN"
	CodeAlreadyOwned      = "ALREADY_OWNED"
	CodeNoEligibleWorkers = "NO_ELIGIBLE_WORKERS"
	CodeValidation        = "VALIDATION_ERROR"
	CodePersistence       = "PERSISTENCE_FAILURE"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// DomainCode extracts the code of a DomainError, or "" for any other error.
func DomainCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func persistenceFailure(msg string, err error) *TechnicalError {
	return &TechnicalError{
		Code:    CodePersistence,
		Message: msg + ": " + err.Error(),
		Err:     err,
	}
}
