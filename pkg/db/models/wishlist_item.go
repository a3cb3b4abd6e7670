package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem pins one product variant to a wishlist. The unique index
// on (wishlist_id, variant_ref) backs the idempotent upsert.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;index:wishlist_items_list_idx;uniqueIndex:wishlist_items_list_variant_key"`
	ProductRef string    `gorm:"column:product_ref;not null"`
	VariantRef string    `gorm:"column:variant_ref;not null;uniqueIndex:wishlist_items_list_variant_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
