// Package leancloud is a thin client for a LeanCloud-style object storage
// HTTP API: CQL queries, class inserts and deletes. Every transport, status
// or decode failure funnels through one normalization path, so callers only
// ever branch on err != nil and can show err.Error() to the user as-is.
package leancloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagetalk/internal/model"
)

const (
	// DefaultAPI is the public LeanCloud REST endpoint.
	DefaultAPI = "https://avoscloud.com/1.1"
	// DefaultClass is the object class comments are stored under.
	DefaultClass = "PageTalk_Comment"
)

// Client talks to one app's object store, scoped to a single class.
// The zero value plus AppID/AppKey is usable.
type Client struct {
	API    string // base URL; DefaultAPI when empty
	AppID  string
	AppKey string
	Class  string // DefaultClass when empty

	HTTPClient *http.Client // http.DefaultClient when nil
	Logger     *zap.Logger  // nop when nil
}

// InsertResult carries the server-assigned identity of an accepted comment.
type InsertResult struct {
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) api() string {
	if v := strings.TrimSpace(c.API); v != "" {
		return strings.TrimRight(v, "/")
	}
	return DefaultAPI
}

func (c *Client) class() string {
	if v := strings.TrimSpace(c.Class); v != "" {
		return v
	}
	return DefaultClass
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// CommentsForPage fetches every comment of the page, newest first. Ordering
// happens server-side via the CQL order-by clause.
func (c *Client) CommentsForPage(ctx context.Context, pageID string) ([]model.Comment, error) {
	cql := fmt.Sprintf("select * from %s where pageId = '%s' order by createdAt desc",
		c.class(), escapeCQLString(pageID))
	var res struct {
		Results []model.Comment `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/cloudQuery?cql="+url.QueryEscape(cql), nil, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// insertBody is the wire shape of a draft. The server assigns objectId and
// createdAt; the client never sends them.
type insertBody struct {
	PageID   string `json:"pageId"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Content  string `json:"content"`
	Avatar   string `json:"avatar,omitempty"`
}

// Insert submits a draft comment and returns the server-assigned identity.
func (c *Client) Insert(ctx context.Context, draft model.Comment) (InsertResult, error) {
	body := insertBody{
		PageID:   draft.PageID,
		Nickname: draft.Nickname,
		Email:    draft.Email,
		Website:  draft.Website,
		Content:  draft.Content,
		Avatar:   draft.Avatar,
	}
	var res InsertResult
	if err := c.do(ctx, http.MethodPost, "/classes/"+url.PathEscape(c.class()), body, &res); err != nil {
		return InsertResult{}, err
	}
	// Reject partial server responses here rather than letting a comment
	// without an identity leak into the thread.
	if res.ObjectID == "" || res.CreatedAt.IsZero() {
		return InsertResult{}, errors.New("storage response missing objectId/createdAt")
	}
	return res, nil
}

// Delete removes a stored comment by id. Not part of the submission flow;
// exposed for moderation tooling.
func (c *Client) Delete(ctx context.Context, objectID string) error {
	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		return errors.New("missing object id")
	}
	return c.do(ctx, http.MethodDelete, "/classes/"+url.PathEscape(c.class())+"/"+url.PathEscape(objectID), nil, nil)
}

// do issues one API request. All failure modes (marshal, transport, non-2xx
// status, unreadable or undecodable body) come back as plain errors; a nil
// error means out holds a decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("storage request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.api()+path, rd)
	if err != nil {
		return fmt.Errorf("storage request: %w", err)
	}
	req.Header.Set("X-LC-Id", c.AppID)
	req.Header.Set("X-LC-Key", c.AppKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger().Debug("storage call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("storage request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	c.logger().Debug("storage call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)))
	if err != nil {
		return fmt.Errorf("storage response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errorMessage(resp.StatusCode, raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("storage response: %w", err)
	}
	return nil
}

// errorMessage prefers the server's own {"error": ...} body over the bare
// status line.
func errorMessage(status int, raw []byte) string {
	var e struct {
		Code  int    `json:"code"`
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && strings.TrimSpace(e.Error) != "" {
		return e.Error
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("storage request failed: %d %s", status, text)
	}
	return fmt.Sprintf("storage request failed: status %d", status)
}

// escapeCQLString doubles single quotes so a page path can be interpolated
// into a CQL string literal.
func escapeCQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
