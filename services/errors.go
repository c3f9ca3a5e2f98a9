package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindIllegalTransition
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindIllegalTransition:
		return "illegal_transition"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// Stable error codes returned to clients.
const (
	CodeInvalidReservationTime = "INVALID_RESERVATION_TIME"
	CodeMissingCustomerInfo    = "MISSING_CUSTOMER_INFO"
	CodeInvalidNumberOfGuests  = "INVALID_NUMBER_OF_GUESTS"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeNoAvailability         = "NO_AVAILABILITY"
	CodeReservationBusy        = "RESERVATION_BUSY"
	CodeCannotConfirm          = "CANNOT_CONFIRM"
	CodeCannotCancel           = "CANNOT_CANCEL"
	CodeCannotArrive           = "CANNOT_ARRIVE"
	CodeCannotMarkNoShow       = "CANNOT_MARK_NO_SHOW"
	CodeReservationNotFound    = "RESERVATION_NOT_FOUND"
	CodeCustomerNotFound       = "CUSTOMER_NOT_FOUND"
	CodeTableNotFound          = "TABLE_NOT_FOUND"
	CodeTableInactive          = "TABLE_INACTIVE"
	CodeInsufficientCapacity   = "INSUFFICIENT_CAPACITY"
	CodeInternal               = "INTERNAL_ERROR"
)

// ReservationError carries the kind used for HTTP mapping and a stable code.
type ReservationError struct {
	Kind      ErrorKind
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e *ReservationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReservationError) Unwrap() error {
	return e.Err
}

func ValidationError(code, message string) *ReservationError {
	return &ReservationError{Kind: KindValidation, Code: code, Message: message}
}

// ConflictError is always retryable: the caller lost a race or the slot is
// taken right now.
func ConflictError(code, message string) *ReservationError {
	return &ReservationError{Kind: KindConflict, Code: code, Message: message, Retryable: true}
}

func IllegalTransitionError(code, message string) *ReservationError {
	return &ReservationError{Kind: KindIllegalTransition, Code: code, Message: message}
}

func NotFoundError(code, message string) *ReservationError {
	return &ReservationError{Kind: KindNotFound, Code: code, Message: message}
}

func InternalError(message string, err error) *ReservationError {
	return &ReservationError{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// AsReservationError unwraps err into a *ReservationError. Anything else is
// reported as internal.
func AsReservationError(err error) *ReservationError {
	var re *ReservationError
	if errors.As(err, &re) {
		return re
	}
	return InternalError("unexpected error", err)
}

// IsKind reports whether err is a ReservationError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var re *ReservationError
	return errors.As(err, &re) && re.Kind == k
}

// HasCode reports whether err is a ReservationError with code.
func HasCode(err error, code string) bool {
	var re *ReservationError
	return errors.As(err, &re) && re.Code == code
}
