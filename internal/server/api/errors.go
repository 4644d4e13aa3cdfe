package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/videohub/internal/common"
)

// APIError is the single error kind handlers raise. The error handler
// middleware turns it into the failure envelope.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func NewAPIError(status int, message string, err error) *APIError {
	return &APIError{StatusCode: status, Message: message, Err: err}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// toAPIError maps service sentinels to a status and a default message.
// Anything unrecognized is a 500.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, common.ErrSelfSubscription):
		return NewAPIError(http.StatusBadRequest, common.ErrSelfSubscription.Error(), err)
	case errors.Is(err, common.ErrValidation):
		return NewAPIError(http.StatusBadRequest, validationMessage(err), err)
	case errors.Is(err, common.ErrNotAnImage):
		return NewAPIError(http.StatusBadRequest, common.ErrNotAnImage.Error(), err)
	case errors.Is(err, common.ErrAvatarRequired),
		errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrSamePassword),
		errors.Is(err, common.ErrInvalidPassword):
		return NewAPIError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, common.ErrAlreadyExists):
		return NewAPIError(http.StatusConflict, "user with email or username already exists", err)
	case errors.Is(err, common.ErrTokenBlacklisted):
		return NewAPIError(http.StatusUnauthorized, "token has been revoked", err)
	case errors.Is(err, common.ErrRefreshTokenMismatch):
		return NewAPIError(http.StatusUnauthorized, common.ErrRefreshTokenMismatch.Error(), err)
	case errors.Is(err, common.ErrTokenExpired):
		return NewAPIError(http.StatusUnauthorized, "token expired", err)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return NewAPIError(http.StatusUnauthorized, "unauthorized request", err)
	case errors.Is(err, common.ErrorNotFound):
		return NewAPIError(http.StatusNotFound, "resource not found", err)
	default:
		return NewAPIError(http.StatusInternalServerError, "something went wrong", err)
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, common.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(common.ErrValidation.Error())+2:]
	}
	return msg
}

// orMessage overrides the default message of err when it maps to status.
// Token errors that already carry a specific message keep it.
func orMessage(err error, status int, message string) error {
	apiErr := toAPIError(err)
	if apiErr.StatusCode != status || hasSpecificMessage(err) {
		return apiErr
	}
	return &APIError{StatusCode: status, Message: message, Errors: apiErr.Errors, Err: apiErr.Err}
}

func hasSpecificMessage(err error) bool {
	return errors.Is(err, common.ErrTokenBlacklisted) ||
		errors.Is(err, common.ErrRefreshTokenMismatch) ||
		errors.Is(err, common.ErrTokenExpired)
}
