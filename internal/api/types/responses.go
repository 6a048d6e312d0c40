package types

import (
	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Total     int64  `json:"total,omitempty"`
	FeedState string `json:"feed_state,omitempty"`
}

// IdeaView is a stored idea with its display fields.
type IdeaView struct {
	models.ProjectIdea
	HTML           string `json:"html"`
	Duration       string `json:"duration"`
	DifficultyTone string `json:"difficulty_tone"`
}

type FeedData struct {
	Items  []IdeaView             `json:"items"`
	Facets repository.FacetValues `json:"facets"`
}
