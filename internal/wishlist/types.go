package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/wishlisted-app/wishlisted-backend/internal/catalog"
)

// ItemDTO is one stored wishlist entry. Catalog data is never persisted
// alongside it; display fields come from hydration at read time.
type ItemDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductRef string    `json:"product_ref"`
	VariantRef string    `json:"variant_ref"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListDTO is the owner-facing wishlist view.
type ListDTO struct {
	ID         uuid.UUID                        `json:"id"`
	IsPublic   bool                             `json:"is_public"`
	Items      []ItemDTO                        `json:"items"`
	NextCursor string                           `json:"next_cursor,omitempty"`
	Display    map[string]catalog.DisplayRecord `json:"display,omitempty"`
}

// ShareStateDTO reports the sharing state after a share mutation.
type ShareStateDTO struct {
	ID         uuid.UUID `json:"id"`
	IsPublic   bool      `json:"is_public"`
	ShareToken string    `json:"share_token"`
}

// PublicListDTO is the unauthenticated read served by share token. It
// carries no owner identifiers.
type PublicListDTO struct {
	Items   []ItemDTO                        `json:"items"`
	Display map[string]catalog.DisplayRecord `json:"display,omitempty"`
}

// AddItemInput is the payload for pinning a variant to the list. The
// optional WishlistID targets a specific list; it only resolves to a
// list the caller owns.
type AddItemInput struct {
	ProductRef string     `json:"product_ref" validate:"required"`
	VariantRef string     `json:"variant_ref" validate:"required"`
	WishlistID *uuid.UUID `json:"wishlist_id"`
}

// SharingInput selects the share mutation to apply. MakePublic is a
// tri-state: nil leaves visibility alone.
type SharingInput struct {
	MakePublic  *bool `json:"make_public"`
	RotateToken bool  `json:"rotate_token"`
}
