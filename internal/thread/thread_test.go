package thread

import (
	"context"
	"errors"
	"testing"
	"time"

	"pagetalk/internal/leancloud"
	"pagetalk/internal/model"
)

type fakeStorage struct {
	comments []model.Comment
	queryErr error

	insertRes leancloud.InsertResult
	insertErr error

	queryCalls  int
	insertCalls int
}

func (f *fakeStorage) CommentsForPage(ctx context.Context, pageID string) ([]model.Comment, error) {
	f.queryCalls++
	return f.comments, f.queryErr
}

func (f *fakeStorage) Insert(ctx context.Context, draft model.Comment) (leancloud.InsertResult, error) {
	f.insertCalls++
	return f.insertRes, f.insertErr
}

type fakeCache struct {
	rec   model.Identity
	saved []model.Identity
}

func (f *fakeCache) Identity() model.Identity { return f.rec }

func (f *fakeCache) SaveIdentity(rec model.Identity) error {
	f.saved = append(f.saved, rec)
	f.rec = rec
	return nil
}

func tagRender(s string) string { return "<p>" + s + "</p>" }

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newLoaded(t *testing.T, fs *fakeStorage, fc *fakeCache) *Thread {
	t.Helper()
	th := New("/posts/hello/", fs, fc, tagRender)
	if err := th.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return th
}

func validForm() Form {
	return Form{Nickname: "Bob", Email: "bob@example.com", Website: "https://example.com", Content: "Nice post!"}
}

func TestLoad_Empty(t *testing.T) {
	th := newLoaded(t, &fakeStorage{}, &fakeCache{})

	if th.Phase() != PhaseLoaded {
		t.Fatalf("expected loaded; got %s", th.Phase())
	}
	if th.Len() != 0 {
		t.Fatalf("expected empty list; got %d", th.Len())
	}
	msg, isErr := th.Message()
	if msg != "0 comments" || isErr {
		t.Fatalf("expected %q; got %q (err=%v)", "0 comments", msg, isErr)
	}
}

func TestLoad_RendersEachBody(t *testing.T) {
	fs := &fakeStorage{comments: []model.Comment{
		{ObjectID: "b", Content: "second", CreatedAt: ts("2024-01-02T00:00:00Z")},
		{ObjectID: "a", Content: "first", CreatedAt: ts("2024-01-01T00:00:00Z")},
	}}
	th := newLoaded(t, fs, &fakeCache{})

	if got := th.Comments()[0].HTMLContent; got != "<p>second</p>" {
		t.Fatalf("expected derived html; got %q", got)
	}
	msg, _ := th.Message()
	if msg != "2 comments" {
		t.Fatalf("expected %q; got %q", "2 comments", msg)
	}
}

func TestLoad_FailureIsTerminal(t *testing.T) {
	fs := &fakeStorage{queryErr: errors.New("network down")}
	th := New("/p", fs, &fakeCache{}, tagRender)

	if err := th.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if th.Phase() != PhaseFailed {
		t.Fatalf("expected failed; got %s", th.Phase())
	}
	msg, isErr := th.Message()
	if msg != "network down" || !isErr {
		t.Fatalf("expected error message; got %q (err=%v)", msg, isErr)
	}
	// No automatic retry: the load transition cannot be taken again.
	if th.BeginLoad() {
		t.Fatal("expected BeginLoad to refuse after failure")
	}
	if fs.queryCalls != 1 {
		t.Fatalf("expected 1 query; got %d", fs.queryCalls)
	}
}

func TestSubmit_OptimisticPrepend(t *testing.T) {
	existing := model.Comment{ObjectID: "old", Nickname: "Ann", Content: "hi", CreatedAt: ts("2024-06-01T00:00:00Z")}
	fs := &fakeStorage{
		comments: []model.Comment{existing},
		// Server clock behind the existing head: the new comment still goes
		// to index 0.
		insertRes: leancloud.InsertResult{ObjectID: "new", CreatedAt: ts("2024-01-01T00:00:00Z")},
	}
	fc := &fakeCache{}
	th := newLoaded(t, fs, fc)

	c, err := th.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.ObjectID != "new" || !c.Persisted() {
		t.Fatalf("expected persisted comment; got %+v", c)
	}
	if th.Len() != 2 {
		t.Fatalf("expected 2 comments; got %d", th.Len())
	}
	if th.Comments()[0].ObjectID != "new" {
		t.Fatalf("expected new comment at head; got %q", th.Comments()[0].ObjectID)
	}
	if th.Comments()[0].HTMLContent != "<p>Nice post!</p>" {
		t.Fatalf("expected derived html; got %q", th.Comments()[0].HTMLContent)
	}
	msg, isErr := th.Message()
	if msg != "2 comments" || isErr {
		t.Fatalf("expected count message; got %q (err=%v)", msg, isErr)
	}
	if len(fc.saved) != 1 {
		t.Fatalf("expected one identity save; got %d", len(fc.saved))
	}
	want := model.Identity{Nickname: "Bob", Email: "bob@example.com", Website: "https://example.com"}
	if fc.saved[0] != want {
		t.Fatalf("expected %+v; got %+v", want, fc.saved[0])
	}
}

func TestSubmit_TrimsFields(t *testing.T) {
	fs := &fakeStorage{insertRes: leancloud.InsertResult{ObjectID: "x", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	th := newLoaded(t, fs, &fakeCache{})

	c, err := th.Submit(context.Background(), Form{Nickname: "  Bob ", Content: "  hello  "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.Nickname != "Bob" || c.Content != "hello" {
		t.Fatalf("expected trimmed fields; got %+v", c)
	}
	if c.PageID != "/posts/hello/" {
		t.Fatalf("expected page id set at construction; got %q", c.PageID)
	}
}

func TestSubmit_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	fs := &fakeStorage{}
	th := newLoaded(t, fs, &fakeCache{})

	_, err := th.Submit(context.Background(), Form{Nickname: "", Content: "hi"})
	if err == nil || err.Error() != "missing nickname" {
		t.Fatalf("expected validation reason; got %v", err)
	}
	if fs.insertCalls != 0 {
		t.Fatalf("expected no insert; got %d", fs.insertCalls)
	}
	if th.Submitting() {
		t.Fatal("expected submit slot to stay free")
	}
}

func TestSubmit_InsertFailureRollsBack(t *testing.T) {
	fs := &fakeStorage{insertErr: errors.New("network down")}
	fc := &fakeCache{}
	th := newLoaded(t, fs, fc)

	_, err := th.Submit(context.Background(), validForm())
	if err == nil || err.Error() != "network down" {
		t.Fatalf("expected insert error; got %v", err)
	}
	if th.Len() != 0 {
		t.Fatalf("expected list unchanged; got %d", th.Len())
	}
	if th.Submitting() {
		t.Fatal("expected submit control re-enabled")
	}
	if len(fc.saved) != 0 {
		t.Fatalf("expected no identity save; got %d", len(fc.saved))
	}
	msg, isErr := th.Message()
	if msg != "network down" || !isErr {
		t.Fatalf("expected error surfaced; got %q (err=%v)", msg, isErr)
	}
}

func TestSubmit_MutualExclusion(t *testing.T) {
	fs := &fakeStorage{insertRes: leancloud.InsertResult{ObjectID: "x", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	th := newLoaded(t, fs, &fakeCache{})

	draft, ok := th.BeginSubmit(validForm())
	if !ok {
		t.Fatal("expected first submission to start")
	}
	// A second submission while the first is in flight must be refused
	// before any network call happens.
	if _, ok := th.BeginSubmit(validForm()); ok {
		t.Fatal("expected second submission to be refused")
	}
	if !th.Submitting() {
		t.Fatal("expected in-flight flag set")
	}

	res, err := th.Push(context.Background(), draft)
	if !th.ApplySubmitResult(draft, res, err) {
		t.Fatalf("expected accepted result; err=%v", err)
	}
	if fs.insertCalls != 1 {
		t.Fatalf("expected exactly one insert; got %d", fs.insertCalls)
	}

	// Slot is free again after reconciliation.
	if _, ok := th.BeginSubmit(validForm()); !ok {
		t.Fatal("expected submission to start after previous resolved")
	}
}

func TestSubmit_RequiresLoadedPhase(t *testing.T) {
	th := New("/p", &fakeStorage{}, &fakeCache{}, tagRender)
	if _, ok := th.BeginSubmit(validForm()); ok {
		t.Fatal("expected idle thread to refuse submissions")
	}
}

func TestDraftInheritsCachedAvatar(t *testing.T) {
	fc := &fakeCache{rec: model.Identity{Avatar: "abc123"}}
	th := newLoaded(t, &fakeStorage{}, fc)

	draft, ok := th.BeginSubmit(validForm())
	if !ok {
		t.Fatal("expected submission to start")
	}
	if draft.Avatar != "abc123" {
		t.Fatalf("expected avatar carried through; got %q", draft.Avatar)
	}
}

func TestEndToEndScenario(t *testing.T) {
	fs := &fakeStorage{
		insertRes: leancloud.InsertResult{ObjectID: "abc", CreatedAt: ts("2024-01-01T00:00:00Z")},
	}
	fc := &fakeCache{}
	th := New("/posts/hello/", fs, fc, tagRender)

	if err := th.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if msg, _ := th.Message(); msg != "0 comments" {
		t.Fatalf("expected %q; got %q", "0 comments", msg)
	}

	c, err := th.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.ObjectID != "abc" || !c.CreatedAt.Equal(ts("2024-01-01T00:00:00Z")) {
		t.Fatalf("expected server identity merged; got %+v", c)
	}
	if th.Len() != 1 {
		t.Fatalf("expected 1 comment; got %d", th.Len())
	}
	if msg, _ := th.Message(); msg != "1 comment" {
		t.Fatalf("expected %q; got %q", "1 comment", msg)
	}
	if fc.rec.Nickname != "Bob" || fc.rec.Email != "bob@example.com" || fc.rec.Website != "https://example.com" {
		t.Fatalf("expected identity cached; got %+v", fc.rec)
	}
}
