package models

import "time"

// Difficulty levels accepted by the generator.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
	DifficultyExpert       = "Expert"
)

// MaxParticipants bounds the team size a request may describe.
const MaxParticipants = 10

// TeamMember is one row of the team roster.
type TeamMember struct {
	Name      string `json:"name" validate:"notblank"`
	Expertise string `json:"expertise" validate:"notblank"`
}

// ProjectParameters are the constraints a project idea is generated from.
// TeamMembers has exactly ParticipantCount entries for teams and is empty for
// solo requests.
type ProjectParameters struct {
	Language          string       `json:"language" validate:"notblank"`
	TimeBudgetMinutes int          `json:"timeBudgetMinutes" validate:"gt=0"`
	ParticipantCount  int          `json:"participantCount" validate:"gte=1,lte=10"`
	TeamMembers       []TeamMember `json:"teamMembers" validate:"omitempty,dive"`
	ProjectType       string       `json:"projectType" validate:"notblank"`
	Difficulty        string       `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced Expert"`
}

// IsTeam reports whether the request describes more than one participant.
func (p ProjectParameters) IsTeam() bool { return p.ParticipantCount > 1 }

// Request returns the parameters as sent for generation: a solo request
// carries no roster.
func (p ProjectParameters) Request() ProjectParameters {
	if !p.IsTeam() {
		p.TeamMembers = nil
	}
	return p
}

// IdeaData is what gets handed to the store after a successful generation.
type IdeaData struct {
	ProjectParameters
	Response string `json:"response"`
}

// ProjectIdea is a stored, generated project brief. Ideas are never updated in place.
type ProjectIdea struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ProjectParameters
	Response string `json:"response"`
}
