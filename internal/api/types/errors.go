package types

import (
	"errors"

	appErr "github.com/project-roulette/engine/pkg/errors"
)

// FromAppError converts any error into the wire error. Non-AppErrors keep
// their text under the unknown code.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if errors.As(err, &e) {
		out := &APIError{Code: string(e.Code), Message: e.Message}
		if s, ok := e.Meta["provider_message"].(string); ok {
			out.Details = s
		}
		return out
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}
