package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository on an append-only
// collection.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{
		coll: db.Collection(auditCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// auditIndexes serve the two ways the trail is read: recent events, and the
// history of one member.
func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("occurred_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("member_history").SetSparse(true),
		},
	}
}

// EnsureAuditIndexes creates the audit indexes. Existing indexes with the
// same definition are left alone.
func EnsureAuditIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(auditCollection).Indexes().CreateMany(ctx, auditIndexes()); err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

type auditDocument struct {
	Type       string            `bson:"type"`
	MemberID   int64             `bson:"member_id,omitempty"`
	BookID     int64             `bson:"book_id,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
	RecordedAt time.Time         `bson:"recorded_at"`
	Detail     map[string]string `bson:"detail,omitempty"`
}

func toAuditDocument(e *domain.AuditEvent, recordedAt time.Time) auditDocument {
	return auditDocument{
		Type:       e.Type,
		MemberID:   e.MemberID,
		BookID:     e.BookID,
		OccurredAt: e.OccurredAt.UTC(),
		RecordedAt: recordedAt,
		Detail:     e.Detail,
	}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	if _, err := r.coll.InsertOne(ctx, toAuditDocument(event, r.now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
