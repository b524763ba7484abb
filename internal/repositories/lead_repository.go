package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeadRepository defines the interface for lead (potential customer) storage
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *models.Lead) error
	GetLeadByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	ListLeads(ctx context.Context) ([]models.Lead, error)
	UpdateLead(ctx context.Context, lead *models.Lead) error
	DeleteLead(ctx context.Context, id primitive.ObjectID) error
}

// MongoLeadRepository implements LeadRepository for MongoDB
type MongoLeadRepository struct {
	collection *mongo.Collection
}

// NewMongoLeadRepository creates a new MongoLeadRepository
func NewMongoLeadRepository(db *mongo.Database) *MongoLeadRepository {
	return &MongoLeadRepository{collection: db.Collection(LeadsCollection)}
}

// CreateLead inserts a lead, assigning its ID and timestamps
func (r *MongoLeadRepository) CreateLead(ctx context.Context, lead *models.Lead) error {
	now := time.Now().UTC()
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetLeadByID retrieves a lead by ID
func (r *MongoLeadRepository) GetLeadByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lead %s: %w", id.Hex(), models.ErrNotFound)
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return &lead, nil
}

// ListLeads returns every lead, newest first
func (r *MongoLeadRepository) ListLeads(ctx context.Context) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	return leads, nil
}

// UpdateLead replaces the stored document with lead
func (r *MongoLeadRepository) UpdateLead(ctx context.Context, lead *models.Lead) error {
	lead.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return fmt.Errorf("replace lead: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("lead %s: %w", lead.ID.Hex(), models.ErrNotFound)
	}
	return nil
}

// DeleteLead deletes a lead by ID
func (r *MongoLeadRepository) DeleteLead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("lead %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}
