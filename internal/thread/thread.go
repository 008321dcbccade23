// Package thread implements the comment synchronization engine: it loads and
// orders the comments of one page, validates and submits new ones, reconciles
// the local view with the server-assigned identity, and persists the author
// identity across sessions.
//
// The engine is UI-free and single-threaded: all methods mutate state
// synchronously, and network calls happen between the Begin*/Apply* pairs so
// a cooperative scheduler (the TUI's update loop) can suspend at the network
// boundary. Scripted callers use Load/Submit, which compose the same pairs.
//
// A freshly accepted comment is always prepended at the head of the list,
// regardless of how its server timestamp compares to existing entries.
// Reloading re-fetches the server's createdAt-descending order, which may
// place it differently; that window is intentional.
package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pagetalk/internal/leancloud"
	"pagetalk/internal/model"
	"pagetalk/internal/validate"
)

// Phase is the lifecycle of one page load.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Storage is the slice of the object-store client the engine drives.
type Storage interface {
	CommentsForPage(ctx context.Context, pageID string) ([]model.Comment, error)
	Insert(ctx context.Context, draft model.Comment) (leancloud.InsertResult, error)
}

// IdentityCache persists the last-used author identity. Implementations must
// degrade silently: Identity never fails, and SaveIdentity errors are treated
// as best-effort by the engine.
type IdentityCache interface {
	Identity() model.Identity
	SaveIdentity(model.Identity) error
}

// RenderFunc converts raw markdown into sanitized HTML. The engine trusts
// its sanitization and never re-checks the output.
type RenderFunc func(string) string

// Form holds the raw composer field values at submit time.
type Form struct {
	Nickname string
	Email    string
	Website  string
	Content  string
}

// Thread owns the in-memory ordered comment list for one page.
type Thread struct {
	pageID   string
	storage  Storage
	identity IdentityCache
	render   RenderFunc

	phase      Phase
	submitting bool
	comments   []model.Comment
	message    string
	messageErr bool
}

// New builds an idle thread for pageID. render must not be nil.
func New(pageID string, storage Storage, identity IdentityCache, render RenderFunc) *Thread {
	return &Thread{
		pageID:   pageID,
		storage:  storage,
		identity: identity,
		render:   render,
		phase:    PhaseIdle,
	}
}

func (t *Thread) PageID() string { return t.pageID }
func (t *Thread) Phase() Phase   { return t.phase }

// Submitting reports whether a submission is in flight.
func (t *Thread) Submitting() bool { return t.submitting }

// Comments returns the current list, newest first. Callers must not mutate it.
func (t *Thread) Comments() []model.Comment { return t.comments }

func (t *Thread) Len() int { return len(t.comments) }

// Message returns the current status line and whether it is an error.
func (t *Thread) Message() (string, bool) { return t.message, t.messageErr }

// Identity returns the cached author identity for prefilling the form.
func (t *Thread) Identity() model.Identity { return t.identity.Identity() }

// BeginLoad moves Idle -> Loading and reports whether the caller should issue
// the query. A thread that already loaded or failed stays put: there is no
// automatic retry.
func (t *Thread) BeginLoad() bool {
	if t.phase != PhaseIdle {
		return false
	}
	t.phase = PhaseLoading
	t.setMessage("Loading...", false)
	return true
}

// Fetch runs the page query without touching engine state; cooperative
// callers pair it with BeginLoad/ApplyComments from a background command.
func (t *Thread) Fetch(ctx context.Context) ([]model.Comment, error) {
	return t.storage.CommentsForPage(ctx, t.pageID)
}

// ApplyComments completes the initial load. On success the list is stored as
// received (the server already ordered it createdAt-descending) with HTML
// derived for each body; on failure the thread is terminal for this attempt
// and the list stays empty.
func (t *Thread) ApplyComments(comments []model.Comment, err error) {
	if t.phase != PhaseLoading {
		return
	}
	if err != nil {
		t.phase = PhaseFailed
		t.setMessage(err.Error(), true)
		return
	}
	for i := range comments {
		comments[i].HTMLContent = t.render(comments[i].Content)
	}
	t.comments = comments
	t.phase = PhaseLoaded
	t.setMessage(countMessage(len(comments)), false)
}

// Load drives the full initial load synchronously.
func (t *Thread) Load(ctx context.Context) error {
	if !t.BeginLoad() {
		return fmt.Errorf("thread for %s is %s, not idle", t.pageID, t.phase)
	}
	comments, err := t.Fetch(ctx)
	t.ApplyComments(comments, err)
	return err
}

// BeginSubmit assembles and validates a draft from the form and reserves the
// single in-flight submission slot. When ok is false no network call may be
// made: either validation failed (the message line carries the reason) or a
// submission is already in flight / the thread is not loaded.
func (t *Thread) BeginSubmit(f Form) (model.Comment, bool) {
	if t.submitting || t.phase != PhaseLoaded {
		return model.Comment{}, false
	}
	draft := model.Comment{
		PageID:   t.pageID,
		Nickname: strings.TrimSpace(f.Nickname),
		Email:    strings.TrimSpace(f.Email),
		Website:  strings.TrimSpace(f.Website),
		Content:  strings.TrimSpace(f.Content),
		Avatar:   t.identity.Identity().Avatar,
	}
	if err := validate.Check(draft); err != nil {
		t.setMessage(err.Error(), true)
		return model.Comment{}, false
	}
	t.submitting = true
	return draft, true
}

// Push runs the insert without touching engine state; cooperative callers
// pair it with BeginSubmit/ApplySubmitResult from a background command.
func (t *Thread) Push(ctx context.Context, draft model.Comment) (leancloud.InsertResult, error) {
	return t.storage.Insert(ctx, draft)
}

// ApplySubmitResult releases the submission guard and reconciles the draft
// with the insert outcome. On success the server identity is merged into the
// draft, its HTML derived, and the comment prepended at index 0; the author
// identity is persisted best-effort. On failure the list is untouched and the
// message line carries the error. Returns whether the comment was accepted.
func (t *Thread) ApplySubmitResult(draft model.Comment, res leancloud.InsertResult, err error) bool {
	if !t.submitting {
		return false
	}
	t.submitting = false
	if err != nil {
		t.setMessage(err.Error(), true)
		return false
	}

	draft.ObjectID = res.ObjectID
	draft.CreatedAt = res.CreatedAt
	draft.HTMLContent = t.render(draft.Content)
	t.comments = append([]model.Comment{draft}, t.comments...)

	// Cache write failures stay silent: losing the prefill is not worth
	// failing a submission that the server already accepted.
	_ = t.identity.SaveIdentity(model.Identity{
		Nickname: draft.Nickname,
		Email:    draft.Email,
		Website:  draft.Website,
		Avatar:   draft.Avatar,
	})

	t.setMessage(countMessage(len(t.comments)), false)
	return true
}

// Submit drives a full submission synchronously.
func (t *Thread) Submit(ctx context.Context, f Form) (model.Comment, error) {
	if t.submitting {
		return model.Comment{}, errors.New("a submission is already in flight")
	}
	if t.phase != PhaseLoaded {
		return model.Comment{}, fmt.Errorf("thread for %s is %s, not loaded", t.pageID, t.phase)
	}
	draft, ok := t.BeginSubmit(f)
	if !ok {
		reason, _ := t.Message()
		return model.Comment{}, errors.New(reason)
	}
	res, err := t.Push(ctx, draft)
	if !t.ApplySubmitResult(draft, res, err) {
		return model.Comment{}, err
	}
	return t.comments[0], nil
}

func (t *Thread) setMessage(text string, isErr bool) {
	t.message = text
	t.messageErr = isErr
}

func countMessage(n int) string {
	if n == 1 {
		return "1 comment"
	}
	return fmt.Sprintf("%d comments", n)
}
