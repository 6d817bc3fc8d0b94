package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tejash/bloghub/internal/models"
)

// MongoPostStore handles post CRUD in MongoDB. Ids are ObjectID hex
// strings; callers treat them as opaque.
type MongoPostStore struct {
	col *mongo.Collection
}

func NewMongoPostStore(ctx context.Context, db *mongo.Database) *MongoPostStore {
	col := db.Collection("posts")

	// Unique index on slug as a backstop: the slug-collision check before
	// insert is best-effort and two concurrent creates can race past it.
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("mongo slug index: %v", err)
	}

	return &MongoPostStore{col: col}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID().Hex()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("mongo insert post: %w", err)
	}
	return post, nil
}

func (s *MongoPostStore) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("mongo decode posts: %w", err)
	}
	return posts, nil
}

func (s *MongoPostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoPostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoPostStore) findOne(ctx context.Context, filter bson.M) (*models.Post, error) {
	var post models.Post
	if err := s.col.FindOne(ctx, filter).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo get post: %w", err)
	}
	return &post, nil
}

// Update merges the provided fields into the post and refreshes updated_at.
// The slug is never recomputed: title changes do not change the URL.
func (s *MongoPostStore) Update(ctx context.Context, id string, upd *models.UpdatePostRequest) (*models.Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Excerpt != nil {
		set["excerpt"] = *upd.Excerpt
	}
	if len(upd.Content) > 0 {
		set["content"] = upd.Content
	}
	if upd.FeaturedImage != nil {
		set["featured_image"] = *upd.FeaturedImage
	}

	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := res.Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo update post: %w", err)
	}
	return &post, nil
}

// Delete removes a post and reports whether a document existed.
func (s *MongoPostStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("mongo delete post: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// MongoMessageStore archives contact messages in MongoDB. Messages are
// write-only through the API.
type MongoMessageStore struct {
	col *mongo.Collection
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{col: db.Collection("messages")}
}

func (s *MongoMessageStore) Insert(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	msg.ID = primitive.NewObjectID().Hex()
	msg.CreatedAt = time.Now().UTC()

	if _, err := s.col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("mongo insert message: %w", err)
	}
	return msg, nil
}
