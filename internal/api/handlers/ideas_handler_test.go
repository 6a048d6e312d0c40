package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/project-roulette/engine/internal/api/types"
	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	"github.com/project-roulette/engine/internal/services"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorFunc func(ctx context.Context, p models.ProjectParameters) (string, error)

func (f generatorFunc) Generate(ctx context.Context, p models.ProjectParameters) (string, error) {
	return f(ctx, p)
}

func newIdeasHandler(t *testing.T, gen services.Generator, store repository.KVStore) *IdeasHandler {
	t.Helper()
	svc := services.NewIdeaService(gen, repository.NewIdeaRepository(store), nil)
	return NewIdeasHandler(svc, services.NewFormRegistry(), services.NewFeedLoader(svc, nil))
}

const soloBody = `{"language":"Go","timeBudgetMinutes":90,"participantCount":1,"projectType":"CLI Tool","difficulty":"Advanced"}`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *types.APIError `json:"error"`
	Meta    *types.Meta     `json:"meta"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestCreateReturnsRenderedIdea(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, p models.ProjectParameters) (string, error) {
		return "# Log Shipper\n**Goal**", nil
	})
	h := newIdeasHandler(t, gen, repository.NewMemoryStore(0))

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(soloBody)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	env := decode(t, rr)
	var v types.IdeaView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "Go", v.Language)
	assert.NotZero(t, v.ID)
	assert.Equal(t, "1h", v.Duration)
	assert.Equal(t, "orange", v.DifficultyTone)
	assert.Contains(t, v.HTML, "<h1")
	assert.Contains(t, v.HTML, "Log Shipper")
	assert.Equal(t, "# Log Shipper\n**Goal**", v.Response)
}

func TestCreateErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		genErr error
		store  repository.KVStore
		status int
		code   string
	}{
		{"bad json", `{`, nil, nil, http.StatusBadRequest, "invalid"},
		{"invalid params", `{"language":"","timeBudgetMinutes":90,"participantCount":1,"projectType":"x","difficulty":"Beginner"}`, nil, nil, http.StatusBadRequest, "invalid"},
		{"surplus roster", `{"language":"Go","timeBudgetMinutes":90,"participantCount":2,"teamMembers":[{"name":"A","expertise":"B"},{"name":"C","expertise":"D"},{"name":"E","expertise":"F"}],"projectType":"x","difficulty":"Beginner"}`, nil, nil, http.StatusBadRequest, "invalid"},
		{"team without roster", `{"language":"Go","timeBudgetMinutes":90,"participantCount":2,"projectType":"x","difficulty":"Beginner"}`, nil, nil, http.StatusBadRequest, "invalid"},
		{"too many participants", `{"language":"Go","timeBudgetMinutes":90,"participantCount":12,"projectType":"x","difficulty":"Beginner"}`, nil, nil, http.StatusBadRequest, "invalid"},
		{"upstream", soloBody, appErr.New(appErr.CodeUpstream, "completion request failed"), nil, http.StatusBadGateway, "upstream_error"},
		{"bad response", soloBody, appErr.New(appErr.CodeBadResponse, "no content"), nil, http.StatusBadGateway, "bad_response"},
		{"storage", soloBody, nil, repository.NewMemoryStore(16), http.StatusInternalServerError, "storage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := generatorFunc(func(ctx context.Context, p models.ProjectParameters) (string, error) {
				if tc.genErr != nil {
					return "", tc.genErr
				}
				return "# ok", nil
			})
			store := tc.store
			if store == nil {
				store = repository.NewMemoryStore(0)
			}
			h := newIdeasHandler(t, gen, store)

			rr := httptest.NewRecorder()
			h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rr.Code)
			env := decode(t, rr)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestCreateConcurrentFromSameClientConflicts(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gen := generatorFunc(func(ctx context.Context, p models.ProjectParameters) (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "# ok", nil
	})
	h := newIdeasHandler(t, gen, repository.NewMemoryStore(0))

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.Create(first, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(soloBody)))
		close(done)
	}()
	<-started

	second := httptest.NewRecorder()
	h.Create(second, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(soloBody)))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusCreated, first.Code)
}

func TestListFiltersAndFacets(t *testing.T) {
	store := repository.NewMemoryStore(0)
	repo := repository.NewIdeaRepository(store)
	ctx := context.Background()
	for _, lang := range []string{"Go", "Rust", "Go"} {
		_, err := repo.Save(ctx, models.IdeaData{
			ProjectParameters: models.ProjectParameters{Language: lang, TimeBudgetMinutes: 30, ParticipantCount: 1, ProjectType: "Game", Difficulty: "Beginner"},
			Response:          "*hi*",
		})
		require.NoError(t, err)
	}
	h := newIdeasHandler(t, generatorFunc(nil), store)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas?language=Go&difficulty=all&participants=", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	env := decode(t, rr)
	var data types.FeedData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Go", data.Items[0].Language)
	assert.Equal(t, "30m", data.Items[0].Duration)
	assert.Contains(t, data.Items[0].HTML, "<em")
	assert.Equal(t, []string{"Go", "Rust"}, data.Facets.Languages)
	assert.Equal(t, "loaded", env.Meta.FeedState)
	assert.EqualValues(t, 2, env.Meta.Total)
}

func TestListRejectsBadFilters(t *testing.T) {
	h := newIdeasHandler(t, generatorFunc(nil), repository.NewMemoryStore(0))
	for _, q := range []string{"participants=zero", "participants=11", "difficulty=Legendary"} {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

type brokenStore struct{ repository.MemoryStore }

func (*brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestListFallsBackToEmptyOnStoreFailure(t *testing.T) {
	h := newIdeasHandler(t, generatorFunc(nil), &brokenStore{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "failed", env.Meta.FeedState)
	var data types.FeedData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Items)
}

func TestExportAndClear(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, p models.ProjectParameters) (string, error) { return "# ok", nil })
	h := newIdeasHandler(t, gen, repository.NewMemoryStore(0))

	rr := httptest.NewRecorder()
	h.Export(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas/export", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "4f53cda18c2baa0c0354bb5f9a3ecbe5ed12ab4d8e11ba873c2f11161202b945", rr.Header().Get("X-Content-SHA256"))

	rr = httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(soloBody)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	h.Export(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas/export", nil))
	var exported []models.ProjectIdea
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exported))
	assert.Len(t, exported, 1)

	rr = httptest.NewRecorder()
	h.Clear(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/ideas", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Export(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ideas/export", nil))
	assert.Equal(t, "[]", rr.Body.String())
}
