package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

const auditCollection = "audit_records"

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// listLimit clamps a requested page size to the allowed window: missing
// or non-positive falls back to the default, oversized is capped.
func listLimit(n int) int64 {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return int64(n)
	}
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert persists one audit record to the audit_records collection.
func (r *AuditRepository) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	doc := bson.M{
		"record_id":  rec.ID,
		"session_id": rec.SessionID,
		"action":     rec.Action,
		"at":         rec.At.UTC(),
	}
	if rec.ActorID > 0 {
		doc["actor_id"] = rec.ActorID
	}
	if rec.Path != "" {
		doc["path"] = rec.Path
	}
	if rec.Outcome != "" {
		doc["outcome"] = rec.Outcome
	}
	if rec.Detail != "" {
		doc["detail"] = rec.Detail
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// List returns the most recent audit records matching the query, newest
// first.
func (r *AuditRepository) List(ctx context.Context, q ports.AuditQuery) ([]domain.AuditRecord, error) {
	filter := bson.M{}
	if q.SessionID != "" {
		filter["session_id"] = q.SessionID
	}
	if q.ActorID > 0 {
		filter["actor_id"] = q.ActorID
	}
	if q.Action != "" {
		filter["action"] = q.Action
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(listLimit(q.Limit))

	cursor, err := r.db.Collection(auditCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.AuditRecord
	for cursor.Next(ctx) {
		var doc struct {
			RecordID  string    `bson:"record_id"`
			SessionID string    `bson:"session_id"`
			ActorID   int       `bson:"actor_id"`
			Action    string    `bson:"action"`
			Path      string    `bson:"path"`
			Outcome   string    `bson:"outcome"`
			Detail    string    `bson:"detail"`
			At        time.Time `bson:"at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit record: %w", err)
		}
		out = append(out, domain.AuditRecord{
			ID:        doc.RecordID,
			SessionID: doc.SessionID,
			ActorID:   doc.ActorID,
			Action:    doc.Action,
			Path:      doc.Path,
			Outcome:   doc.Outcome,
			Detail:    doc.Detail,
			At:        doc.At,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return out, nil
}
