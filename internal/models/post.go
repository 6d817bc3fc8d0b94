package models

import (
	"encoding/json"
	"time"
)

// Post is a blog post document. Content is an opaque rich-text blob; the
// backend never inspects it beyond a length check. IDs are opaque strings
// regardless of the storage backend.
type Post struct {
	ID            string          `json:"id"                      bson:"_id,omitempty"`
	Title         string          `json:"title"                   bson:"title"`
	Slug          string          `json:"slug"                    bson:"slug"`
	Excerpt       string          `json:"excerpt"                 bson:"excerpt"`
	Content       json.RawMessage `json:"content"                 bson:"content"`
	FeaturedImage string          `json:"featuredImage,omitempty" bson:"featured_image,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"               bson:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt"               bson:"updated_at"`
}

// CreatePostRequest is the JSON body for POST /api/posts. The slug is never
// accepted from the caller; it is derived from the title.
type CreatePostRequest struct {
	Title         string          `json:"title"         validate:"required,min=5,max=200"`
	Excerpt       string          `json:"excerpt"       validate:"required,min=10,max=500"`
	Content       json.RawMessage `json:"content"       validate:"required,max=1048576"`
	FeaturedImage string          `json:"featuredImage" validate:"omitempty,max=2048"`
}

// UpdatePostRequest is the JSON body for PUT /api/posts/{id}. Nil fields are
// left untouched; the slug is never recomputed on update.
type UpdatePostRequest struct {
	Title         *string         `json:"title"         validate:"omitempty,min=5,max=200"`
	Excerpt       *string         `json:"excerpt"       validate:"omitempty,min=10,max=500"`
	Content       json.RawMessage `json:"content"       validate:"omitempty,max=1048576"`
	FeaturedImage *string         `json:"featuredImage" validate:"omitempty,max=2048"`
}
