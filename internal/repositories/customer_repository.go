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

// CustomerRepository defines the interface for active customer storage.
// The pattern lookups take regular expressions; email patterns match
// case-insensitively.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id primitive.ObjectID) error
	FindByEmailPattern(ctx context.Context, pattern string) ([]models.Customer, error)
	FindByPhonePattern(ctx context.Context, pattern string) ([]models.Customer, error)
}

// MongoCustomerRepository implements CustomerRepository for MongoDB
type MongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new MongoCustomerRepository
func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{collection: db.Collection(CustomersCollection)}
}

func (r *MongoCustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	now := time.Now().UTC()
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepository) GetCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

// ListCustomers returns every customer, most recently updated first
func (r *MongoCustomerRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return r.find(ctx, bson.D{}, opts)
}

func (r *MongoCustomerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": customer.ID}, customer)
	if err != nil {
		return fmt.Errorf("replace customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("customer %s: %w", customer.ID.Hex(), models.ErrNotFound)
	}
	return nil
}

func (r *MongoCustomerRepository) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}

// FindByEmailPattern returns customers whose email matches pattern, ignoring case
func (r *MongoCustomerRepository) FindByEmailPattern(ctx context.Context, pattern string) ([]models.Customer, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: pattern, Options: "i"}}
	return r.find(ctx, filter)
}

// FindByPhonePattern returns customers whose stored phone matches pattern
func (r *MongoCustomerRepository) FindByPhonePattern(ctx context.Context, pattern string) ([]models.Customer, error) {
	filter := bson.M{"phone": primitive.Regex{Pattern: pattern}}
	return r.find(ctx, filter)
}

func (r *MongoCustomerRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.Customer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}
