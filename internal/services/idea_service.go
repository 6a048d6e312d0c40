package services

import (
	"context"
	"fmt"
	"time"

	"github.com/project-roulette/engine/internal/metrics"
	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	"github.com/project-roulette/engine/internal/validators"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"github.com/project-roulette/engine/pkg/logger"
	"go.uber.org/zap"
)

// Generator turns parameters into a project brief. *completion.Client implements it.
type Generator interface {
	Generate(ctx context.Context, params models.ProjectParameters) (string, error)
}

// IdeaService runs generation and reads the stored history.
type IdeaService interface {
	Generate(ctx context.Context, params models.ProjectParameters) (*models.ProjectIdea, error)
	Feed(ctx context.Context, c repository.Criteria) ([]models.ProjectIdea, error)
	Facets(ctx context.Context) (repository.FacetValues, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context) (string, error)
}

type ideaService struct {
	gen     Generator
	repo    repository.IdeaRepository
	metrics *metrics.Metrics
}

func NewIdeaService(gen Generator, repo repository.IdeaRepository, m *metrics.Metrics) IdeaService {
	return &ideaService{gen: gen, repo: repo, metrics: m}
}

var _ IdeaService = (*ideaService)(nil)

// ValidateParameters checks field constraints and the roster shape: a team
// roster has exactly one entry per participant.
func ValidateParameters(p models.ProjectParameters) error {
	if err := validators.New().Struct(p); err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, validators.Describe(err))
	}
	if p.IsTeam() && len(p.TeamMembers) != p.ParticipantCount {
		return appErr.New(appErr.CodeInvalid,
			fmt.Sprintf("teamMembers has %d entries, want %d", len(p.TeamMembers), p.ParticipantCount))
	}
	return nil
}

// Generate validates, calls the generator once and stores the result. A
// storage failure fails the whole call even though the brief was produced.
func (s *ideaService) Generate(ctx context.Context, params models.ProjectParameters) (*models.ProjectIdea, error) {
	params = params.Request()
	if err := ValidateParameters(params); err != nil {
		s.metrics.RecordGeneration(string(appErr.CodeInvalid))
		return nil, err
	}

	logger.L().Info("generate idea",
		zap.String("language", params.Language),
		zap.Int("minutes", params.TimeBudgetMinutes),
		zap.Int("participants", params.ParticipantCount),
		zap.String("difficulty", params.Difficulty),
	)

	start := time.Now()
	text, err := s.gen.Generate(ctx, params)
	if err != nil {
		s.metrics.RecordGeneration(string(appErr.CodeOf(err)))
		logger.L().Warn("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	idea, err := s.repo.Save(ctx, models.IdeaData{ProjectParameters: params, Response: text})
	if err != nil {
		s.metrics.RecordGeneration(string(appErr.CodeOf(err)))
		logger.L().Error("generated idea could not be stored", zap.Error(err))
		return nil, err
	}

	s.metrics.RecordGeneration("ok")
	logger.L().Info("idea generated", zap.Int64("id", idea.ID), zap.Duration("elapsed", time.Since(start)))
	return idea, nil
}

func (s *ideaService) Feed(ctx context.Context, c repository.Criteria) ([]models.ProjectIdea, error) {
	return s.repo.LoadFiltered(ctx, c)
}

// Facets lists the filter values present in the whole history.
func (s *ideaService) Facets(ctx context.Context) (repository.FacetValues, error) {
	ideas, err := s.repo.LoadAll(ctx)
	if err != nil {
		return repository.FacetValues{}, err
	}
	return repository.Facets(ideas), nil
}

func (s *ideaService) Clear(ctx context.Context) error {
	logger.L().Info("clear idea history")
	return s.repo.Clear(ctx)
}

func (s *ideaService) Export(ctx context.Context) (string, error) {
	logger.L().Info("export idea history")
	return s.repo.Export(ctx)
}
