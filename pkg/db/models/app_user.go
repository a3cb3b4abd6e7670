package models

import (
	"time"

	"github.com/google/uuid"
)

// AppUser is the wishlist owner within a shop. CallerRef holds the
// intermediary-supplied customer id for signed-in visitors, or the
// client-held session ref for anonymous ones; the empty string is the
// legacy per-shop anonymous bucket.
type AppUser struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop      string    `gorm:"column:shop;not null;index:app_users_shop_idx;uniqueIndex:app_users_shop_caller_key"`
	CallerRef string    `gorm:"column:caller_ref;not null;default:'';uniqueIndex:app_users_shop_caller_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
