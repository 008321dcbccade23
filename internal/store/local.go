package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"pagetalk/internal/model"
)

const localDBFileName = "local.sqlite"

// Fixed keys in the local kv table. The identity key matches the name the
// original widget used in browser localStorage, so the contract stays
// recognizable: one JSON record under one fixed key.
const (
	identityKey = "pagetalk-user"
	lastPageKey = "pagetalk-page"
)

// Local is the durable per-user kv store: the widget's localStorage analog.
// An empty Dir resolves to the config dir. All reads degrade to zero values;
// only writes report errors, and callers treat those as best-effort too.
type Local struct {
	Dir string
}

func (l Local) path() (string, error) {
	dir := strings.TrimSpace(l.Dir)
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, localDBFileName), nil
}

func (l Local) open() (*sql.DB, error) {
	path, err := l.path()
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS local_kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Get returns the value stored under key, or "" when absent.
func (l Local) Get(key string) (string, error) {
	db, err := l.open()
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	var v string
	err = db.QueryRow(`SELECT v FROM local_kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Put overwrites the value stored under key. The write is atomic from the
// caller's perspective: readers see either the old record or the new one.
func (l Local) Put(key, value string) error {
	db, err := l.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`INSERT OR REPLACE INTO local_kv(k, v) VALUES(?, ?)`, key, value)
	return err
}

// Identity returns the cached author identity, or the zero record when the
// store is missing, unreadable or corrupt. It never fails.
func (l Local) Identity() model.Identity {
	raw, err := l.Get(identityKey)
	if err != nil || strings.TrimSpace(raw) == "" {
		return model.Identity{}
	}
	var rec model.Identity
	if json.Unmarshal([]byte(raw), &rec) != nil {
		return model.Identity{}
	}
	return rec
}

// SaveIdentity overwrites the cached identity wholesale (never merged
// field-by-field).
func (l Local) SaveIdentity(rec model.Identity) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.Put(identityKey, string(b))
}

// LastPage returns the page path the widget last showed, if any.
func (l Local) LastPage() string {
	v, err := l.Get(lastPageKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func (l Local) SaveLastPage(page string) error {
	page = strings.TrimSpace(page)
	if page == "" {
		return nil
	}
	return l.Put(lastPageKey, page)
}
