package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/project-roulette/engine/internal/models"
	appErr "github.com/project-roulette/engine/pkg/errors"
)

// ErrSubmitInProgress is returned when a form is submitted while its previous
// submission is still outstanding.
var ErrSubmitInProgress = appErr.New(appErr.CodeConflict, "a generation is already in progress")

type FormState int

const (
	FormIdle FormState = iota
	FormEditing
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	}
	return "unknown"
}

// IdeaGenerator is satisfied by IdeaService.
type IdeaGenerator interface {
	Generate(ctx context.Context, params models.ProjectParameters) (*models.ProjectIdea, error)
}

// Form holds one client's in-progress request. The roster always has one
// row per participant.
type Form struct {
	mu      sync.Mutex
	state   FormState
	params  models.ProjectParameters
	lastErr error
}

func NewForm() *Form {
	f := &Form{}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.state = FormIdle
	f.params = models.ProjectParameters{
		ParticipantCount: 1,
		TeamMembers:      []models.TeamMember{{}},
	}
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err is the error of the last failed submission, cleared by the next edit.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Params returns a copy of the current values.
func (f *Form) Params() models.ProjectParameters {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.params
	p.TeamMembers = append([]models.TeamMember{}, f.params.TeamMembers...)
	return p
}

func (f *Form) edit(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrSubmitInProgress
	}
	if err := fn(); err != nil {
		return err
	}
	f.state = FormEditing
	f.lastErr = nil
	return nil
}

// Set replaces every field. A short roster is padded with blank rows; a
// roster longer than the participant count is rejected.
func (f *Form) Set(p models.ProjectParameters) error {
	return f.edit(func() error { return f.replace(p) })
}

// replace requires f.mu.
func (f *Form) replace(p models.ProjectParameters) error {
	if err := checkParticipants(p.ParticipantCount); err != nil {
		return err
	}
	if p.IsTeam() && len(p.TeamMembers) > p.ParticipantCount {
		return appErr.New(appErr.CodeInvalid,
			fmt.Sprintf("teamMembers has %d entries, want %d", len(p.TeamMembers), p.ParticipantCount))
	}
	p.TeamMembers = resizeRoster(append([]models.TeamMember{}, p.TeamMembers...), p.ParticipantCount)
	f.params = p
	return nil
}

// SetParticipants grows the roster with blank rows or truncates it, keeping
// existing entries.
func (f *Form) SetParticipants(n int) error {
	return f.edit(func() error {
		if err := checkParticipants(n); err != nil {
			return err
		}
		f.params.ParticipantCount = n
		f.params.TeamMembers = resizeRoster(f.params.TeamMembers, n)
		return nil
	})
}

func (f *Form) UpdateMember(i int, m models.TeamMember) error {
	return f.edit(func() error {
		if i < 0 || i >= len(f.params.TeamMembers) {
			return appErr.New(appErr.CodeInvalid, fmt.Sprintf("no team member at index %d", i))
		}
		f.params.TeamMembers[i] = m
		return nil
	})
}

// Validate checks the values that Submit would send.
func (f *Form) Validate() error {
	return ValidateParameters(f.Params().Request())
}

// Submit hands the current values to g. On success the form resets to its
// defaults; on failure it stays editable with the values intact.
func (f *Form) Submit(ctx context.Context, g IdeaGenerator) (*models.ProjectIdea, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	return f.submitLocked(ctx, g)
}

// SetAndSubmit replaces the values and submits them without releasing the
// form in between, so a concurrent edit cannot swap the values being sent.
func (f *Form) SetAndSubmit(ctx context.Context, p models.ProjectParameters, g IdeaGenerator) (*models.ProjectIdea, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if err := f.replace(p); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = FormEditing
	f.lastErr = nil
	return f.submitLocked(ctx, g)
}

// submitLocked is entered holding f.mu and releases it before calling g.
func (f *Form) submitLocked(ctx context.Context, g IdeaGenerator) (*models.ProjectIdea, error) {
	p := f.params
	p.TeamMembers = append([]models.TeamMember{}, f.params.TeamMembers...)
	req := p.Request()
	if err := ValidateParameters(req); err != nil {
		f.state = FormEditing
		f.lastErr = err
		f.mu.Unlock()
		return nil, err
	}
	f.state = FormSubmitting
	f.mu.Unlock()

	idea, err := g.Generate(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FormEditing
		f.lastErr = err
		return nil, err
	}
	f.reset()
	f.lastErr = nil
	return idea, nil
}

func checkParticipants(n int) error {
	if n < 1 || n > models.MaxParticipants {
		return appErr.New(appErr.CodeInvalid,
			fmt.Sprintf("participantCount must be between 1 and %d", models.MaxParticipants))
	}
	return nil
}

func resizeRoster(members []models.TeamMember, n int) []models.TeamMember {
	if len(members) >= n {
		return members[:n]
	}
	for len(members) < n {
		members = append(members, models.TeamMember{})
	}
	return members
}

// FormRegistry keeps one Form per client so a client cannot run two
// generations at once.
type FormRegistry struct {
	mu    sync.Mutex
	forms map[string]*Form
}

func NewFormRegistry() *FormRegistry {
	return &FormRegistry{forms: map[string]*Form{}}
}

// For returns the client's form, creating it on first use.
func (r *FormRegistry) For(client string) *Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[client]
	if !ok {
		f = NewForm()
		r.forms[client] = f
	}
	return f
}

// Release forgets the client's form unless a submission is still running.
func (r *FormRegistry) Release(client string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[client]; ok && f.State() != FormSubmitting {
		delete(r.forms, client)
	}
}

// Len reports how many clients currently hold a form.
func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}
