package core

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AccountsErrorBadInput       = "ACCOUNTS_BAD_INPUT"
	AccountsErrorNotFound       = "ACCOUNTS_NOT_FOUND"
	AccountsErrorConflict       = "ACCOUNTS_CONFLICT"
	AccountsErrorForbidden      = "ACCOUNTS_FORBIDDEN"
	AccountsErrorNotConfigured  = "ACCOUNTS_NOT_CONFIGURED"
	AccountsErrorUpstreamFailed = "ACCOUNTS_UPSTREAM_FAILED"
	AccountsErrorInternal       = "ACCOUNTS_INTERNAL_ERROR"
)

func accountsErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAccountsErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newAccountsError(err.Error(), goerrors.CategoryNotFound, AccountsErrorNotFound)
	case strings.Contains(msg, "already exists"), strings.Contains(msg, "duplicate"):
		return newAccountsError(err.Error(), goerrors.CategoryConflict, AccountsErrorConflict)
	case strings.Contains(msg, "forbidden"), strings.Contains(msg, "permission"):
		return newAccountsError(err.Error(), goerrors.CategoryAuthz, AccountsErrorForbidden)
	case strings.Contains(msg, "not configured"):
		return newAccountsError(err.Error(), goerrors.CategoryOperation, AccountsErrorNotConfigured)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newAccountsError(err.Error(), goerrors.CategoryBadInput, AccountsErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAccountsErrorEnvelope(mapped)
}

func newAccountsError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAccountsErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func notFoundError(message string) *goerrors.Error {
	return newAccountsError(message, goerrors.CategoryNotFound, AccountsErrorNotFound)
}

func conflictError(message string) *goerrors.Error {
	return newAccountsError(message, goerrors.CategoryConflict, AccountsErrorConflict)
}

func forbiddenError(message string) *goerrors.Error {
	return newAccountsError(message, goerrors.CategoryAuthz, AccountsErrorForbidden)
}

func badInputError(message string) *goerrors.Error {
	return newAccountsError(message, goerrors.CategoryBadInput, AccountsErrorBadInput)
}

func notConfiguredError(message string) *goerrors.Error {
	return newAccountsError(message, goerrors.CategoryOperation, AccountsErrorNotConfigured)
}

func upstreamError(err error, message string) *goerrors.Error {
	return ensureAccountsErrorEnvelope(
		goerrors.Wrap(err, goerrors.CategoryExternal, message).
			WithTextCode(AccountsErrorUpstreamFailed),
	)
}

// IsNotFound reports whether err represents a missing record, either as a
// mapped domain error or a raw driver error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryNotFound
	}
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrRemoteNotFound)
}

func isNotFound(err error) bool {
	return IsNotFound(err)
}

func ensureAccountsErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = accountsHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAccountsTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAccountsTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AccountsErrorBadInput
	case goerrors.CategoryNotFound:
		return AccountsErrorNotFound
	case goerrors.CategoryConflict:
		return AccountsErrorConflict
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return AccountsErrorForbidden
	case goerrors.CategoryOperation:
		return AccountsErrorNotConfigured
	case goerrors.CategoryExternal:
		return AccountsErrorUpstreamFailed
	default:
		return AccountsErrorInternal
	}
}

func accountsHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryOperation:
		return http.StatusServiceUnavailable
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
