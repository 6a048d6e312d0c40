package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/project-roulette/engine/internal/api/middleware"
	"github.com/project-roulette/engine/internal/api/types"
	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/render"
	"github.com/project-roulette/engine/internal/repository"
	"github.com/project-roulette/engine/internal/services"
	"github.com/project-roulette/engine/internal/validators"
	"github.com/project-roulette/engine/pkg/logger"
	"github.com/project-roulette/engine/pkg/utils"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type IdeasHandler struct {
	svc   services.IdeaService
	forms *services.FormRegistry
	feed  *services.FeedLoader
}

func NewIdeasHandler(svc services.IdeaService, forms *services.FormRegistry, feed *services.FeedLoader) *IdeasHandler {
	return &IdeasHandler{svc: svc, forms: forms, feed: feed}
}

// Create generates and stores an idea. One generation per client at a time.
func (h *IdeasHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateIdeaRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	client := middleware.ClientIP(r)
	form := h.forms.For(client)
	defer h.forms.Release(client)

	idea, err := form.SetAndSubmit(r.Context(), req, h.svc)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data:    view(*idea),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// List returns the filtered feed. A store failure yields an empty feed with
// feed_state "failed".
func (h *IdeasHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.feed.Load(r.Context(), c)
	facets, err := h.svc.Facets(r.Context())
	if err != nil {
		logger.L().Warn("facets unavailable", zap.Error(err))
		facets = repository.Facets(nil)
	}

	items := make([]types.IdeaView, 0, len(snap.Ideas))
	for _, idea := range snap.Ideas {
		items = append(items, view(idea))
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    types.FeedData{Items: items, Facets: facets},
		Meta: &types.Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Total:     int64(len(items)),
			FeedState: snap.State.String(),
		},
	})
}

// Export downloads the history as indented JSON. The checksum lets a backup
// be verified after download.
func (h *IdeasHandler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Export(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	sum := utils.SHA256Hex([]byte(out))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="project-ideas.json"`)
	w.Header().Set("X-Content-SHA256", sum)
	w.Header().Set("ETag", `"`+sum+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (h *IdeasHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		writeAppError(w, r, err)
		return
	}
	logger.L().Info("history cleared by admin", zap.String("subject", middleware.GetSubject(r.Context())))
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]bool{"cleared": true}})
}

func view(idea models.ProjectIdea) types.IdeaView {
	return types.IdeaView{
		ProjectIdea:    idea,
		HTML:           render.Render(idea.Response),
		Duration:       render.ShortDuration(idea.TimeBudgetMinutes),
		DifficultyTone: render.DifficultyTone(idea.Difficulty),
	}
}

// unset treats the "all" sentinel like an absent filter.
func unset(v string) string {
	v = strings.TrimSpace(v)
	if v == "all" {
		return ""
	}
	return v
}

func parseCriteria(r *http.Request) (repository.Criteria, error) {
	q := r.URL.Query()
	fq := types.FeedQuery{
		Language:     unset(q.Get("language")),
		Difficulty:   unset(q.Get("difficulty")),
		ProjectType:  unset(q.Get("project_type")),
		Participants: unset(q.Get("participants")),
	}
	if err := validators.New().Struct(fq); err != nil {
		return repository.Criteria{}, fmt.Errorf("invalid filter: %s", validators.Describe(err))
	}

	c := repository.Criteria{Language: fq.Language, Difficulty: fq.Difficulty, ProjectType: fq.ProjectType}
	if fq.Participants != "" {
		n, err := strconv.Atoi(fq.Participants)
		if err != nil || n < 1 || n > models.MaxParticipants {
			return repository.Criteria{}, fmt.Errorf("participants must be between 1 and %d", models.MaxParticipants)
		}
		c.Participants = n
	}
	return c, nil
}
