package model

import "time"

// Comment is a single user-submitted, markdown-formatted message attached to
// a page. A comment is a draft until the remote store assigns ObjectID and
// CreatedAt; after that it is immutable on this client.
type Comment struct {
	ObjectID  string    `json:"objectId,omitempty"`
	PageID    string    `json:"pageId"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email,omitempty"`
	Website   string    `json:"website,omitempty"`
	Content   string    `json:"content"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// HTMLContent is derived from Content by the markdown renderer and is
	// never persisted; the store only ever sees the raw markdown source.
	HTMLContent string `json:"-"`
}

// Persisted reports whether the remote store has accepted the comment.
func (c Comment) Persisted() bool {
	return c.ObjectID != "" && !c.CreatedAt.IsZero()
}

// Identity is the cached author identity reused to prefill future
// submissions. It is persisted wholesale under a single fixed key; comment
// content and page ids never travel with it.
type Identity struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	Avatar   string `json:"avatar"`
}
