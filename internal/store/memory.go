package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tejash/bloghub/internal/models"
)

// In-memory store variants, selected at startup when no database is
// configured. They are explicit repository objects injected like the real
// backends, and they double as test fixtures.

// MemoryUserStore is the in-memory credential store.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, username, email, hashedPw string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hashedPw,
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

// MemoryPostStore is the in-memory post repository. Insertion order is
// retained so List can return posts newest-first without relying on
// timestamp resolution.
type MemoryPostStore struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	order []string
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[string]*models.Post)}
}

func (s *MemoryPostStore) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	post.ID = uuid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	s.posts[post.ID] = clonePost(post)
	s.order = append(s.order, post.ID)
	return post, nil
}

func (s *MemoryPostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Post, 0, len(s.posts))
	for i := len(s.order) - 1; i >= 0; i-- {
		if p, ok := s.posts[s.order[i]]; ok {
			out = append(out, *clonePost(p))
		}
	}
	return out, nil
}

func (s *MemoryPostStore) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, nil
}

func (s *MemoryPostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, nil
}

func (s *MemoryPostStore) Update(_ context.Context, id string, upd *models.UpdatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Excerpt != nil {
		p.Excerpt = *upd.Excerpt
	}
	if len(upd.Content) > 0 {
		p.Content = upd.Content
	}
	if upd.FeaturedImage != nil {
		p.FeaturedImage = *upd.FeaturedImage
	}
	p.UpdatedAt = time.Now().UTC()

	return clonePost(p), nil
}

func (s *MemoryPostStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return false, nil
	}
	delete(s.posts, id)
	return true, nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	if p.Content != nil {
		c.Content = append(c.Content[:0:0], p.Content...)
	}
	return &c
}

// MemoryMessageStore archives contact messages in memory.
type MemoryMessageStore struct {
	mu       sync.Mutex
	messages []models.ContactMessage
}

func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{}
}

func (s *MemoryMessageStore) Insert(_ context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC()
	s.messages = append(s.messages, *msg)
	return msg, nil
}

// Messages returns everything archived so far.
func (s *MemoryMessageStore) Messages() []models.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ContactMessage(nil), s.messages...)
}

// PlaceholderImageURL is returned by the memory image store, which has
// nowhere to put the bytes.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=350&q=80"

// MemoryImageStore is the development stand-in for the object store.
type MemoryImageStore struct{}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{}
}

func (s *MemoryImageStore) Upload(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return PlaceholderImageURL, nil
}
