package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/project-roulette/engine/internal/metrics"
	"github.com/project-roulette/engine/internal/models"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultIdeasKey   = "project_roulette_ideas"
	DefaultIdeasLimit = 50
)

// Criteria narrows LoadFiltered. Zero fields match everything; set fields
// must all match.
type Criteria struct {
	Language     string
	Difficulty   string
	ProjectType  string
	Participants int
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool { return c == Criteria{} }

// Matches applies every set criterion with exact equality.
func (c Criteria) Matches(idea models.ProjectIdea) bool {
	if c.Language != "" && idea.Language != c.Language {
		return false
	}
	if c.Difficulty != "" && idea.Difficulty != c.Difficulty {
		return false
	}
	if c.ProjectType != "" && idea.ProjectType != c.ProjectType {
		return false
	}
	if c.Participants != 0 && idea.ParticipantCount != c.Participants {
		return false
	}
	return true
}

// IdeaRepository is the capped, newest-first idea history.
type IdeaRepository interface {
	Save(ctx context.Context, data models.IdeaData) (*models.ProjectIdea, error)
	LoadAll(ctx context.Context) ([]models.ProjectIdea, error)
	LoadFiltered(ctx context.Context, c Criteria) ([]models.ProjectIdea, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context) (string, error)
	Count(ctx context.Context) (int, error)
}

type IdeaOption func(*ideaRepository)

func WithKey(key string) IdeaOption { return func(r *ideaRepository) { r.key = key } }

func WithLimit(n int) IdeaOption { return func(r *ideaRepository) { r.limit = n } }

func WithLogger(l *zap.Logger) IdeaOption { return func(r *ideaRepository) { r.log = l } }

func WithMetrics(m *metrics.Metrics) IdeaOption { return func(r *ideaRepository) { r.metrics = m } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IdeaOption { return func(r *ideaRepository) { r.now = now } }

type ideaRepository struct {
	store   KVStore
	key     string
	limit   int
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// serializes the read-modify-write in Save and Clear
	mu sync.Mutex
}

// NewIdeaRepository stores the whole history as one JSON array under a single key.
func NewIdeaRepository(store KVStore, opts ...IdeaOption) IdeaRepository {
	r := &ideaRepository{
		store: store,
		key:   DefaultIdeasKey,
		limit: DefaultIdeasLimit,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.limit <= 0 {
		r.limit = DefaultIdeasLimit
	}
	return r
}

var errCorrupt = errors.New("stored ideas are not a valid JSON array")

// read returns the stored list. A missing key is an empty list.
func (r *ideaRepository) read(ctx context.Context) ([]models.ProjectIdea, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []models.ProjectIdea{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ideas []models.ProjectIdea
	if err := json.Unmarshal(raw, &ideas); err != nil {
		return nil, errors.Join(errCorrupt, err)
	}
	if ideas == nil {
		ideas = []models.ProjectIdea{}
	}
	return ideas, nil
}

func (r *ideaRepository) Save(ctx context.Context, data models.IdeaData) (*models.ProjectIdea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas, err := r.read(ctx)
	if err != nil {
		r.metrics.RecordStoreWrite("save", false, 0)
		return nil, appErr.Wrap(err, appErr.CodeStorage, "read idea history").WithMeta("key", r.key)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	id := now.UnixMilli()
	if len(ideas) > 0 && ideas[0].ID >= id {
		id = ideas[0].ID + 1
	}

	params := data.ProjectParameters
	params.TeamMembers = append([]models.TeamMember{}, data.TeamMembers...)
	idea := models.ProjectIdea{
		ID:                id,
		CreatedAt:         now,
		ProjectParameters: params,
		Response:          data.Response,
	}

	next := make([]models.ProjectIdea, 0, len(ideas)+1)
	next = append(next, idea)
	next = append(next, ideas...)
	if len(next) > r.limit {
		next = next[:r.limit]
	}

	payload, err := json.Marshal(next)
	if err != nil {
		r.metrics.RecordStoreWrite("save", false, 0)
		return nil, appErr.Wrap(err, appErr.CodeStorage, "encode idea history")
	}
	if err := r.store.Set(ctx, r.key, payload); err != nil {
		r.metrics.RecordStoreWrite("save", false, 0)
		e := appErr.Wrap(err, appErr.CodeStorage, "write idea history").WithMeta("key", r.key)
		if errors.Is(err, ErrQuotaExceeded) {
			e.WithMeta("reason", "quota_exceeded")
		}
		return nil, e
	}

	r.metrics.RecordStoreWrite("save", true, len(next))
	r.log.Info("idea saved",
		zap.Int64("id", idea.ID),
		zap.String("language", idea.Language),
		zap.Int("history_size", len(next)),
	)
	return &idea, nil
}

// LoadAll never fails on unreadable content: it logs, counts and returns an
// empty list. Only backend failures surface as errors.
func (r *ideaRepository) LoadAll(ctx context.Context) ([]models.ProjectIdea, error) {
	ideas, err := r.read(ctx)
	if err == nil {
		return ideas, nil
	}
	if errors.Is(err, errCorrupt) {
		r.log.Warn("idea history unreadable, treating as empty", zap.String("key", r.key), zap.Error(err))
		r.metrics.RecordStoreReadFailure("corrupt")
		return []models.ProjectIdea{}, nil
	}
	r.metrics.RecordStoreReadFailure("backend")
	return nil, appErr.Wrap(err, appErr.CodeUnavailable, "read idea history").WithMeta("key", r.key)
}

func (r *ideaRepository) LoadFiltered(ctx context.Context, c Criteria) ([]models.ProjectIdea, error) {
	ideas, err := r.LoadAll(ctx)
	if err != nil || c.IsZero() {
		return ideas, err
	}
	out := make([]models.ProjectIdea, 0, len(ideas))
	for _, idea := range ideas {
		if c.Matches(idea) {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (r *ideaRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		r.metrics.RecordStoreWrite("clear", false, 0)
		return appErr.Wrap(err, appErr.CodeStorage, "clear idea history").WithMeta("key", r.key)
	}
	r.metrics.RecordStoreWrite("clear", true, 0)
	r.log.Info("idea history cleared", zap.String("key", r.key))
	return nil
}

// Export renders the current list as JSON indented by two spaces.
func (r *ideaRepository) Export(ctx context.Context) (string, error) {
	ideas, err := r.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(ideas, "", "  ")
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "encode export")
	}
	return string(b), nil
}

func (r *ideaRepository) Count(ctx context.Context) (int, error) {
	ideas, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(ideas), nil
}

// FacetValues lists the distinct values of each filterable field, in first-seen
// order, for building filter menus.
type FacetValues struct {
	Languages    []string `json:"languages"`
	Difficulties []string `json:"difficulties"`
	ProjectTypes []string `json:"projectTypes"`
	Participants []int    `json:"participants"`
}

// Facets collects the distinct filter values present in ideas.
func Facets(ideas []models.ProjectIdea) FacetValues {
	f := FacetValues{Languages: []string{}, Difficulties: []string{}, ProjectTypes: []string{}, Participants: []int{}}
	seen := map[string]bool{}
	add := func(kind, v string, dst *[]string) {
		if strings.TrimSpace(v) == "" || seen[kind+"\x00"+v] {
			return
		}
		seen[kind+"\x00"+v] = true
		*dst = append(*dst, v)
	}
	seenCount := map[int]bool{}
	for _, idea := range ideas {
		add("lang", idea.Language, &f.Languages)
		add("diff", idea.Difficulty, &f.Difficulties)
		add("type", idea.ProjectType, &f.ProjectTypes)
		if !seenCount[idea.ParticipantCount] {
			seenCount[idea.ParticipantCount] = true
			f.Participants = append(f.Participants, idea.ParticipantCount)
		}
	}
	return f
}
