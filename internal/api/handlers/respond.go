package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/project-roulette/engine/internal/api/middleware"
	"github.com/project-roulette/engine/internal/api/types"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"github.com/project-roulette/engine/pkg/logger"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: &types.APIError{Code: string(appErr.CodeInvalid), Message: msg}})
}

// writeAppError picks the status from the error code.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := appErr.HTTPStatus(appErr.CodeOf(err))
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	resp := types.APIResponse{Success: false, Error: types.FromAppError(err)}
	if id := middleware.GetRequestID(r.Context()); id != "" {
		resp.Meta = &types.Meta{RequestID: id}
	}
	writeJSON(w, status, resp)
}
