package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

const transitionsCollection = "session_transitions"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(transitionsCollection)}
}

// RecordTransition appends one controller transition to the audit collection.
func (r *AuditRepository) RecordTransition(ctx context.Context, rec domain.TransitionRecord) error {
	_, err := r.col.InsertOne(ctx, transitionDocument(rec))
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes used to browse the trail per controller and user.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "controller", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func transitionDocument(rec domain.TransitionRecord) bson.M {
	doc := bson.M{
		"controller": rec.Controller,
		"from":       rec.From,
		"to":         rec.To,
		"at":         rec.At.UTC(),
	}
	if rec.Reason != "" {
		doc["reason"] = rec.Reason
	}
	if rec.Address != "" {
		doc["address"] = rec.Address
	}
	if rec.ChainID != 0 {
		doc["chain_id"] = rec.ChainID
	}
	if rec.UserID != "" {
		doc["user_id"] = rec.UserID
	}
	return doc
}
