package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/wishlisted-app/wishlisted-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository resolves app users by (shop, caller_ref).
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreate resolves the user for (shop, callerRef), creating it when
// absent. The insert is conditional on the unique (shop, caller_ref)
// index, so concurrent first visits converge on a single row.
func (r *Repository) FindOrCreate(ctx context.Context, shop, callerRef string) (*models.AppUser, error) {
	user := &models.AppUser{
		ID:        uuid.New(),
		Shop:      shop,
		CallerRef: callerRef,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop"}, {Name: "caller_ref"}},
			DoNothing: true,
		}).
		Create(user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return user, nil
	}

	var existing models.AppUser
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND caller_ref = ?", shop, callerRef).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
