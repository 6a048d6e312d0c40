package types

import "github.com/project-roulette/engine/internal/models"

// GenerateIdeaRequest is the POST /ideas body.
type GenerateIdeaRequest = models.ProjectParameters

// FeedQuery holds the raw feed filters. "all" and "" both mean unset.
type FeedQuery struct {
	Language     string `validate:"omitempty,max=100"`
	Difficulty   string `validate:"omitempty,oneof=all Beginner Intermediate Advanced Expert"`
	ProjectType  string `validate:"omitempty,max=100"`
	Participants string `validate:"omitempty"`
}
