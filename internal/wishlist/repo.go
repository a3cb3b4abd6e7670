package wishlist

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wishlisted-app/wishlisted-backend/pkg/db/models"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreate resolves the single wishlist for (ownerID, shop), creating
// it with the provided share token when absent. The insert is conditional
// on the unique (owner_id, shop) index, so concurrent first reads converge
// on one row; a losing insert's token is discarded.
func (r *Repository) FindOrCreate(ctx context.Context, ownerID uuid.UUID, shop, shareToken string) (*models.Wishlist, error) {
	list := &models.Wishlist{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Shop:       shop,
		ShareToken: shareToken,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "shop"}},
			DoNothing: true,
		}).
		Create(list)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return list, nil
	}

	var existing models.Wishlist
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND shop = ?", ownerID, shop).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FindByID loads a wishlist by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	var list models.Wishlist
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindPublicByToken resolves a wishlist by share token, but only while it
// is public. Items are loaded in creation order.
func (r *Repository) FindPublicByToken(ctx context.Context, token string) (*models.Wishlist, error) {
	var list models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Where("share_token = ? AND is_public = ?", token, true).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// UpsertItem pins a variant to the list, treating a duplicate as success.
// The conditional insert can affect zero rows in two ways: the row already
// exists, or a concurrent delete removed it between insert and refetch.
// One retry covers the delete race.
func (r *Repository) UpsertItem(ctx context.Context, wishlistID uuid.UUID, productRef, variantRef string) (*models.WishlistItem, error) {
	for attempt := 0; attempt < 2; attempt++ {
		item := &models.WishlistItem{
			ID:         uuid.New(),
			WishlistID: wishlistID,
			ProductRef: productRef,
			VariantRef: variantRef,
		}

		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "variant_ref"}},
				DoNothing: true,
			}).
			Create(item)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			return item, nil
		}

		var existing models.WishlistItem
		err := r.db.WithContext(ctx).
			Where("wishlist_id = ? AND variant_ref = ?", wishlistID, variantRef).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "wishlist item upsert did not converge")
}

// DeleteItem removes an item scoped to its wishlist. Deleting an absent
// item succeeds.
func (r *Repository) DeleteItem(ctx context.Context, wishlistID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
		Delete(&models.WishlistItem{}).
		Error
}

// UpdateSharing applies the given column updates and returns the reloaded row.
func (r *Repository) UpdateSharing(ctx context.Context, wishlistID uuid.UUID, updates map[string]any) (*models.Wishlist, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Wishlist{}).
		Where("id = ?", wishlistID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, wishlistID)
}

// ListItems returns a keyset-paginated page of wishlist items, newest first.
func (r *Repository) ListItems(ctx context.Context, wishlistID uuid.UUID, cursor string, limit int) ([]ItemDTO, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("wishlist_id = ?", wishlistID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.WishlistItem
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]ItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toItemDTO(record))
	}
	return items, nextCursor, nil
}

func toItemDTO(record models.WishlistItem) ItemDTO {
	return ItemDTO{
		ID:         record.ID,
		ProductRef: record.ProductRef,
		VariantRef: record.VariantRef,
		CreatedAt:  record.CreatedAt,
	}
}
