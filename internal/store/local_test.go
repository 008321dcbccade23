package store

import (
	"testing"

	"pagetalk/internal/model"
)

func TestIdentityRoundTrip(t *testing.T) {
	l := Local{Dir: t.TempDir()}

	want := model.Identity{
		Nickname: "Bob",
		Email:    "bob@example.com",
		Website:  "https://example.com",
		Avatar:   "abc123",
	}
	if err := l.SaveIdentity(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := l.Identity(); got != want {
		t.Fatalf("expected %+v; got %+v", want, got)
	}
}

func TestIdentity_MissingIsZero(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	if got := l.Identity(); got != (model.Identity{}) {
		t.Fatalf("expected zero identity; got %+v", got)
	}
}

func TestIdentity_CorruptIsZero(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	if err := l.Put("pagetalk-user", "{"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := l.Identity(); got != (model.Identity{}) {
		t.Fatalf("expected zero identity; got %+v", got)
	}
}

func TestSaveIdentity_Overwrites(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	if err := l.SaveIdentity(model.Identity{Nickname: "Bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A later record without an email must not keep the old one.
	if err := l.SaveIdentity(model.Identity{Nickname: "Ann"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := l.Identity()
	if got.Nickname != "Ann" || got.Email != "" {
		t.Fatalf("expected wholesale replace; got %+v", got)
	}
}

func TestLastPageRoundTrip(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	if got := l.LastPage(); got != "" {
		t.Fatalf("expected no last page; got %q", got)
	}
	if err := l.SaveLastPage("/posts/hello/"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := l.LastPage(); got != "/posts/hello/" {
		t.Fatalf("expected page remembered; got %q", got)
	}
	// Blank pages are ignored rather than clearing the memory.
	if err := l.SaveLastPage("  "); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := l.LastPage(); got != "/posts/hello/" {
		t.Fatalf("expected page kept; got %q", got)
	}
}
