package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scribehub/identity-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists security audit events in MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Email     string `bson:"email"`
	Action    string `bson:"action"`
	TraceID   string `bson:"trace_id"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Email:     event.Email,
		Action:    event.Action,
		TraceID:   event.TraceID,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByEmail(ctx context.Context, email string, limit int) ([]domain.AuditEvent, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cur, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAuditEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]domain.AuditEvent, len(docs))
	for i, d := range docs {
		events[i] = domain.AuditEvent{
			Email:     d.Email,
			Action:    d.Action,
			TraceID:   d.TraceID,
			Timestamp: unixToTime(d.Timestamp),
		}
	}
	return events, nil
}
