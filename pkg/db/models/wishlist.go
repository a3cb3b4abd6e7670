package models

import (
	"time"

	"github.com/google/uuid"
)

// Wishlist is a per-owner, per-shop collection of variants. The share
// token is assigned at creation and replaced on rotation; public reads
// resolve only while IsPublic holds.
type Wishlist struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:wishlists_owner_shop_key"`
	Shop       string    `gorm:"column:shop;not null;uniqueIndex:wishlists_owner_shop_key"`
	IsPublic   bool      `gorm:"column:is_public;not null;default:false"`
	ShareToken string    `gorm:"column:share_token;not null;index:wishlists_share_token_idx"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
}
