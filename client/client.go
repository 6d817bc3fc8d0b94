// Package client is a Go client for the blog API. Reads go through a query
// cache keyed by logical resource ("posts", "posts/<slug>"); mutations
// invalidate both the collection key and the affected item key so the next
// read refetches fresh server state. No optimistic local mutation: the
// cache takes the simpler invalidate-and-refetch approach.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/tejash/bloghub/internal/models"
)

const keyPosts = "posts"

func keyPost(slug string) string { return "posts/" + slug }

// APIError is a non-2xx response decoded into its JSON message.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the blog backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *queryCache

	mu    sync.Mutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		cache:   newQueryCache(),
	}
}

// SetToken installs a bearer token obtained out of band.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, "" when logged out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login authenticates and stores the issued token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return resp.User, nil
}

// Logout deletes the token and empties the cache. This is client-side
// only: the server keeps honoring the token until it expires.
func (c *Client) Logout() {
	c.SetToken("")
	c.cache.clear()
}

// CurrentUser fetches the user the stored token resolves to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Posts returns all posts, served from cache when possible.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	v, err := c.cache.fetch(keyPosts, func() (interface{}, error) {
		var posts []models.Post
		if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
			return nil, err
		}
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Post), nil
}

// PostBySlug returns a single post, served from cache when possible.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	v, err := c.cache.fetch(keyPost(slug), func() (interface{}, error) {
		var post models.Post
		if err := c.do(ctx, http.MethodGet, "/api/posts/"+slug, nil, &post); err != nil {
			return nil, err
		}
		return &post, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Post), nil
}

// CreatePost creates a post and invalidates the collection and the new
// post's item key.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &post); err != nil {
		return nil, err
	}
	c.cache.invalidate(keyPosts, keyPost(post.Slug))
	return &post, nil
}

// UpdatePost applies a partial update and invalidates the collection and
// the post's item key. Skipping either would leave a stale read behind.
func (c *Client) UpdatePost(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id, req, &post); err != nil {
		return nil, err
	}
	c.cache.invalidate(keyPosts, keyPost(post.Slug))
	return &post, nil
}

// DeletePost removes a post. The caller supplies the slug alongside the id
// so the item cache entry can be invalidated too.
func (c *Client) DeletePost(ctx context.Context, id, slug string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(keyPosts, keyPost(slug))
	return nil
}

// UploadImage sends a multipart image and returns the stored URL. The 2MB
// cap is checked here before any bytes hit the wire; the server enforces
// it again.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) > 2<<20 {
		return "", fmt.Errorf("image exceeds the 2MB limit")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", decodeAPIError(resp)
	}
	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.URL, nil
}

// SendMessage submits a contact message.
func (c *Client) SendMessage(ctx context.Context, req models.ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/api/contact", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Details = payload.Details
	} else {
		apiErr.Message = resp.Status
	}
	return apiErr
}
