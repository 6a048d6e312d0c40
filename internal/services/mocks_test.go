package services

import (
	"context"

	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, params models.ProjectParameters) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

type mockIdeaRepository struct {
	mock.Mock
}

func (m *mockIdeaRepository) Save(ctx context.Context, data models.IdeaData) (*models.ProjectIdea, error) {
	args := m.Called(ctx, data)
	if v := args.Get(0); v != nil {
		return v.(*models.ProjectIdea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdeaRepository) LoadAll(ctx context.Context) ([]models.ProjectIdea, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.ProjectIdea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdeaRepository) LoadFiltered(ctx context.Context, c repository.Criteria) ([]models.ProjectIdea, error) {
	args := m.Called(ctx, c)
	if v := args.Get(0); v != nil {
		return v.([]models.ProjectIdea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdeaRepository) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockIdeaRepository) Export(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockIdeaRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func soloParams() models.ProjectParameters {
	return models.ProjectParameters{
		Language:          "Go",
		TimeBudgetMinutes: 120,
		ParticipantCount:  1,
		ProjectType:       "CLI Tool",
		Difficulty:        models.DifficultyIntermediate,
	}
}

func teamParams() models.ProjectParameters {
	p := soloParams()
	p.ParticipantCount = 2
	p.TeamMembers = []models.TeamMember{
		{Name: "Ada", Expertise: "Backend Development"},
		{Name: "Linus", Expertise: "DevOps"},
	}
	return p
}
