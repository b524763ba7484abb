package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/junkcaptain/crm/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for operator account operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUserByEmail(ctx context.Context, email string) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new operator in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves an operator by ID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateGormError(err, "user")
	}
	return &user, nil
}

// GetUserByEmail retrieves an operator by normalized email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translateGormError(err, "user")
	}
	return &user, nil
}

// DeleteUserByEmail permanently removes an operator so it can be recreated
func (r *PostgresUserRepository) DeleteUserByEmail(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Unscoped().Where("email = ?", models.NormalizeEmail(email)).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	return nil
}

func translateGormError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, models.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}
