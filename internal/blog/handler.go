package blog

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tejash/bloghub/internal/models"
)

// MaxImageSize is the server-side cap on uploaded images. The client
// enforces the same limit before sending; this is the authoritative check.
const MaxImageSize = 2 << 20

// PostStore defines the interface for post persistence. Lookups return
// (nil, nil) when nothing matches; errors mean the backend failed.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id string, upd *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MessageStore defines the interface for contact-message archival.
type MessageStore interface {
	Insert(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
}

// ImageStore defines the interface for image blob storage.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Handler holds the content API HTTP handlers.
type Handler struct {
	posts    PostStore
	messages MessageStore
	images   ImageStore
	validate *validator.Validate
}

func NewHandler(posts PostStore, messages MessageStore, images ImageStore) *Handler {
	return &Handler{
		posts:    posts,
		messages: messages,
		images:   images,
		validate: validator.New(),
	}
}

// List returns all posts, newest first. Public.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		log.Printf("list posts: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get returns a single post addressed by slug or, failing that, by id.
// The id fallback serves the edit flow, which only knows the id. Public.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "slugOrID")

	post, err := h.posts.GetBySlug(r.Context(), param)
	if err != nil {
		log.Printf("get post by slug: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if post == nil {
		post, err = h.posts.GetByID(r.Context(), param)
		if err != nil {
			log.Printf("get post by id: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create validates the payload, derives a unique slug from the title and
// stores the post. The collision check is best-effort: two concurrent
// creates with the same title can race past it, the store's unique index
// is the backstop.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	postSlug := slugify(req.Title)
	existing, err := h.posts.GetBySlug(r.Context(), postSlug)
	if err != nil {
		log.Printf("slug check: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if existing != nil {
		postSlug = withSuffix(postSlug)
	}

	post, err := h.posts.Create(r.Context(), &models.Post{
		Title:         req.Title,
		Slug:          postSlug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		log.Printf("create post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update merges the provided fields into an existing post. The slug stays
// fixed even when the title changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, &req)
	if err != nil {
		log.Printf("update post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post. Deleting an id that no longer exists is a 404,
// not an error.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.posts.Delete(r.Context(), id)
	if err != nil {
		log.Printf("delete post: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Upload accepts a multipart image (field "image", <=2MB, image/* only),
// stores it and returns the public URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+4096)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "image exceeds the 2MB limit")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	if header.Size > MaxImageSize {
		writeError(w, http.StatusBadRequest, "image exceeds the 2MB limit")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("read upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	// Sniff the content type rather than trusting the client header.
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	url, err := h.images.Upload(r.Context(), key, data, contentType)
	if err != nil {
		log.Printf("image upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Contact archives a message from an anonymous visitor.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	msg, err := h.messages.Insert(r.Context(), &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		log.Printf("save contact message: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save message")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}
