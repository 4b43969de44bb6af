package domain

import (
	"context"
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeUnauthenticated         ErrorCode = "UNAUTHENTICATED"
	CodeInvalidCredentialFormat ErrorCode = "INVALID_CREDENTIAL_FORMAT"
	CodeApplication             ErrorCode = "APPLICATION"
	CodeProtocol                ErrorCode = "PROTOCOL"
	CodeUnknownOperation        ErrorCode = "UNKNOWN_OPERATION"
	CodeUnavailable             ErrorCode = "UNAVAILABLE"
	CodeCanceled                ErrorCode = "CANCELED"
	CodeUnexpected              ErrorCode = "UNEXPECTED"
)

type Error struct {
	Code      ErrorCode
	Op        string
	Message   string
	Cause     error
	Status    int
	Retryable bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:      existing.Code,
			Op:        op,
			Message:   existing.Message,
			Cause:     existing.Cause,
			Status:    existing.Status,
			Retryable: existing.Retryable,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return CodeUnauthenticated, true
	case errors.Is(err, ErrInvalidCredentialFormat):
		return CodeInvalidCredentialFormat, true
	case errors.Is(err, ErrUnknownTool):
		return CodeUnknownOperation, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled, true
	default:
		return "", false
	}
}

// MessageFrom returns the human-readable part of err, without op or code prefixes.
func MessageFrom(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		if domainErr.Message != "" {
			return domainErr.Message
		}
		if domainErr.Cause != nil {
			return domainErr.Cause.Error()
		}
		return string(domainErr.Code)
	}
	return err.Error()
}

var (
	ErrNotAuthenticated        = errors.New("not authenticated")
	ErrInvalidCredentialFormat = errors.New("invalid credential format")
	ErrUnknownTool             = errors.New("unknown tool")
)
