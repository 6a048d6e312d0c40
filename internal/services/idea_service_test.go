package services

import (
	"context"
	"testing"

	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateStoresResult(t *testing.T) {
	ctx := context.Background()
	gen := new(mockGenerator)
	repo := new(mockIdeaRepository)
	svc := NewIdeaService(gen, repo, nil)

	p := soloParams()
	p.TeamMembers = []models.TeamMember{{}}
	want := p.Request()

	gen.On("Generate", ctx, want).Return("# Brief", nil).Once()
	repo.On("Save", ctx, models.IdeaData{ProjectParameters: want, Response: "# Brief"}).
		Return(&models.ProjectIdea{ID: 7, ProjectParameters: want, Response: "# Brief"}, nil).Once()

	idea, err := svc.Generate(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), idea.ID)
	gen.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestGenerateRejectsInvalidBeforeCalling(t *testing.T) {
	cases := map[string]func(p *models.ProjectParameters){
		"blank language":     func(p *models.ProjectParameters) { p.Language = "  " },
		"zero budget":        func(p *models.ProjectParameters) { p.TimeBudgetMinutes = 0 },
		"too many people":    func(p *models.ProjectParameters) { p.ParticipantCount = 11 },
		"unknown difficulty": func(p *models.ProjectParameters) { p.Difficulty = "Legendary" },
		"short roster": func(p *models.ProjectParameters) {
			p.ParticipantCount = 3
			p.TeamMembers = []models.TeamMember{{Name: "A", Expertise: "B"}}
		},
		"blank member": func(p *models.ProjectParameters) {
			p.ParticipantCount = 2
			p.TeamMembers = []models.TeamMember{{Name: "A", Expertise: "B"}, {Name: "", Expertise: "B"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			gen := new(mockGenerator)
			repo := new(mockIdeaRepository)
			svc := NewIdeaService(gen, repo, nil)

			p := soloParams()
			mutate(&p)
			_, err := svc.Generate(context.Background(), p)
			require.Error(t, err)
			assert.True(t, appErr.IsCode(err, appErr.CodeInvalid), err.Error())
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateTeamNeedsOneMemberPerParticipant(t *testing.T) {
	for name, members := range map[string][]models.TeamMember{
		"empty roster": nil,
		"surplus roster": {
			{Name: "A", Expertise: "B"}, {Name: "C", Expertise: "D"}, {Name: "E", Expertise: "F"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			gen := new(mockGenerator)
			repo := new(mockIdeaRepository)
			svc := NewIdeaService(gen, repo, nil)

			p := teamParams()
			p.TeamMembers = members
			_, err := svc.Generate(context.Background(), p)
			require.Error(t, err)
			assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateUpstreamFailureSkipsSave(t *testing.T) {
	ctx := context.Background()
	gen := new(mockGenerator)
	repo := new(mockIdeaRepository)
	svc := NewIdeaService(gen, repo, nil)

	upstream := appErr.New(appErr.CodeUpstream, "completion request failed").WithMeta("status", 429)
	gen.On("Generate", ctx, mock.Anything).Return("", upstream).Once()

	_, err := svc.Generate(ctx, teamParams())
	require.ErrorIs(t, err, upstream)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGenerateStorageFailureFailsWholeCall(t *testing.T) {
	ctx := context.Background()
	gen := new(mockGenerator)
	repo := new(mockIdeaRepository)
	svc := NewIdeaService(gen, repo, nil)

	gen.On("Generate", ctx, mock.Anything).Return("# Brief", nil).Once()
	repo.On("Save", ctx, mock.Anything).
		Return(nil, appErr.New(appErr.CodeStorage, "write idea history")).Once()

	idea, err := svc.Generate(ctx, soloParams())
	require.Error(t, err)
	assert.Nil(t, idea)
	assert.True(t, appErr.IsCode(err, appErr.CodeStorage))
	gen.AssertExpectations(t)
}

func TestFeedClearExportDelegate(t *testing.T) {
	ctx := context.Background()
	repo := new(mockIdeaRepository)
	svc := NewIdeaService(new(mockGenerator), repo, nil)

	c := repository.Criteria{Language: "Rust"}
	repo.On("LoadFiltered", ctx, c).Return([]models.ProjectIdea{{ID: 1}}, nil).Once()
	repo.On("Clear", ctx).Return(nil).Once()
	repo.On("Export", ctx).Return("[]", nil).Once()

	ideas, err := svc.Feed(ctx, c)
	require.NoError(t, err)
	assert.Len(t, ideas, 1)
	require.NoError(t, svc.Clear(ctx))
	out, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	repo.AssertExpectations(t)
}

func TestFacetsUseWholeHistory(t *testing.T) {
	ctx := context.Background()
	repo := new(mockIdeaRepository)
	svc := NewIdeaService(new(mockGenerator), repo, nil)

	repo.On("LoadAll", ctx).Return([]models.ProjectIdea{
		{ProjectParameters: models.ProjectParameters{Language: "Go", Difficulty: "Beginner", ProjectType: "Game", ParticipantCount: 1}},
		{ProjectParameters: models.ProjectParameters{Language: "Zig", Difficulty: "Expert", ProjectType: "Game", ParticipantCount: 4}},
	}, nil).Once()

	f, err := svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Zig"}, f.Languages)
	assert.Equal(t, []int{1, 4}, f.Participants)
}
