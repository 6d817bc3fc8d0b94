package models

import "time"

// ContactMessage is a message left by an anonymous visitor. Messages are
// archival only: created through the API, never mutated or deleted by it.
type ContactMessage struct {
	ID        string    `json:"id"         bson:"_id,omitempty"`
	Name      string    `json:"name"       bson:"name"`
	Email     string    `json:"email"      bson:"email"`
	Subject   string    `json:"subject"    bson:"subject"`
	Message   string    `json:"message"    bson:"message"`
	CreatedAt time.Time `json:"createdAt"  bson:"created_at"`
}

// ContactRequest is the JSON body for POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
