package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names in the CRM database.
const (
	LeadsCollection         = "leads"
	CustomersCollection     = "customers"
	NotificationsCollection = "notifications"
)

// EnsureIndexes creates the indexes backing the list orderings and the
// notification cascade. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		LeadsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		CustomersCollection: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "lead_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
