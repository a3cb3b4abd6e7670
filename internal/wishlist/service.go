package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wishlisted-app/wishlisted-backend/internal/catalog"
	"github.com/wishlisted-app/wishlisted-backend/pkg/db/models"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/token"
	"gorm.io/gorm"
)

// UserResolver maps a (shop, caller_ref) pair to its app user row.
type UserResolver interface {
	FindOrCreate(ctx context.Context, shop, callerRef string) (*models.AppUser, error)
}

// Store is the persistence surface the service depends on.
type Store interface {
	FindOrCreate(ctx context.Context, ownerID uuid.UUID, shop, shareToken string) (*models.Wishlist, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Wishlist, error)
	FindPublicByToken(ctx context.Context, token string) (*models.Wishlist, error)
	UpsertItem(ctx context.Context, wishlistID uuid.UUID, productRef, variantRef string) (*models.WishlistItem, error)
	DeleteItem(ctx context.Context, wishlistID, itemID uuid.UUID) error
	UpdateSharing(ctx context.Context, wishlistID uuid.UUID, updates map[string]any) (*models.Wishlist, error)
	ListItems(ctx context.Context, wishlistID uuid.UUID, cursor string, limit int) ([]ItemDTO, string, error)
}

// Hydrator joins stored references with live catalog display data.
type Hydrator interface {
	Hydrate(ctx context.Context, refs []string) map[string]catalog.DisplayRecord
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Users    UserResolver
	Lists    Store
	Hydrator Hydrator
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetList(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (ListDTO, error)
	AddItem(ctx context.Context, shop, callerRef string, input AddItemInput) (ItemDTO, error)
	RemoveItem(ctx context.Context, shop, callerRef string, itemID uuid.UUID) error
	UpdateSharing(ctx context.Context, shop, callerRef string, input SharingInput) (ShareStateDTO, error)
	GetPublicList(ctx context.Context, shareToken string, hydrate bool) (PublicListDTO, error)
}

type service struct {
	users    UserResolver
	lists    Store
	hydrator Hydrator
	newToken func() (string, error)
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user resolver is required")
	}
	if params.Lists == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist store is required")
	}
	return &service{
		users:    params.Users,
		lists:    params.Lists,
		hydrator: params.Hydrator,
		newToken: token.New,
	}, nil
}

// GetList resolves or creates the caller's wishlist and returns a page of
// items, optionally joined with catalog display data.
func (s *service) GetList(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (ListDTO, error) {
	list, err := s.resolveList(ctx, shop, callerRef)
	if err != nil {
		return ListDTO{}, err
	}

	items, nextCursor, err := s.lists.ListItems(ctx, list.ID, cursor, limit)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return ListDTO{}, err
		}
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}

	dto := ListDTO{
		ID:         list.ID,
		IsPublic:   list.IsPublic,
		Items:      items,
		NextCursor: nextCursor,
	}
	if hydrate && s.hydrator != nil {
		dto.Display = s.hydrator.Hydrate(ctx, variantRefs(items))
	}
	return dto, nil
}

// AddItem pins a variant to the caller's wishlist. Re-adding an existing
// variant succeeds and returns the stored entry. A supplied wishlist id
// is honored only when it resolves to a list the caller owns; anything
// else reads as not found.
func (s *service) AddItem(ctx context.Context, shop, callerRef string, input AddItemInput) (ItemDTO, error) {
	if input.ProductRef == "" || input.VariantRef == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product_ref and variant_ref are required")
	}

	list, err := s.resolveList(ctx, shop, callerRef)
	if err != nil {
		return ItemDTO{}, err
	}

	if input.WishlistID != nil && *input.WishlistID != list.ID {
		target, err := s.lists.FindByID(ctx, *input.WishlistID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ItemDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
			}
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
		}
		if target.OwnerID != list.OwnerID || target.Shop != shop {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
		}
		list = target
	}

	item, err := s.lists.UpsertItem(ctx, list.ID, input.ProductRef, input.VariantRef)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return ItemDTO{}, err
		}
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert wishlist item")
	}
	return toItemDTO(*item), nil
}

// RemoveItem drops the entry if it exists. Removal is idempotent and only
// reaches items on the caller's own list.
func (s *service) RemoveItem(ctx context.Context, shop, callerRef string, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	list, err := s.resolveList(ctx, shop, callerRef)
	if err != nil {
		return err
	}
	if err := s.lists.DeleteItem(ctx, list.ID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist item")
	}
	return nil
}

// UpdateSharing applies the requested visibility change and token
// rotation. Rotation invalidates the previous token immediately;
// unpublishing retains the token so a later publish restores the same
// URL. A body requesting no change reports the current state back.
func (s *service) UpdateSharing(ctx context.Context, shop, callerRef string, input SharingInput) (ShareStateDTO, error) {
	list, err := s.resolveList(ctx, shop, callerRef)
	if err != nil {
		return ShareStateDTO{}, err
	}

	updates := map[string]any{}
	if input.MakePublic != nil {
		updates["is_public"] = *input.MakePublic
	}
	if input.RotateToken || list.ShareToken == "" {
		fresh, err := s.newToken()
		if err != nil {
			return ShareStateDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share token")
		}
		updates["share_token"] = fresh
	}

	if len(updates) == 0 {
		return ShareStateDTO{
			ID:         list.ID,
			IsPublic:   list.IsPublic,
			ShareToken: list.ShareToken,
		}, nil
	}

	updated, err := s.lists.UpdateSharing(ctx, list.ID, updates)
	if err != nil {
		return ShareStateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wishlist sharing")
	}
	return ShareStateDTO{
		ID:         updated.ID,
		IsPublic:   updated.IsPublic,
		ShareToken: updated.ShareToken,
	}, nil
}

// GetPublicList serves the unauthenticated share view. A token whose list
// is private resolves exactly like an unknown token.
func (s *service) GetPublicList(ctx context.Context, shareToken string, hydrate bool) (PublicListDTO, error) {
	if shareToken == "" {
		return PublicListDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
	}

	list, err := s.lists.FindPublicByToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PublicListDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "wishlist not found")
		}
		return PublicListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shared wishlist")
	}

	items := make([]ItemDTO, 0, len(list.Items))
	for _, record := range list.Items {
		items = append(items, toItemDTO(record))
	}

	dto := PublicListDTO{Items: items}
	if hydrate && s.hydrator != nil {
		dto.Display = s.hydrator.Hydrate(ctx, variantRefs(items))
	}
	return dto, nil
}

// resolveList finds or creates the caller's single list for the shop.
// An empty shop is served as its own degenerate tenant bucket, same as
// an empty caller ref.
func (s *service) resolveList(ctx context.Context, shop, callerRef string) (*models.Wishlist, error) {
	user, err := s.users.FindOrCreate(ctx, shop, callerRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve app user")
	}

	fresh, err := s.newToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share token")
	}

	list, err := s.lists.FindOrCreate(ctx, user.ID, shop, fresh)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve wishlist")
	}
	return list, nil
}

func variantRefs(items []ItemDTO) []string {
	refs := make([]string, 0, len(items))
	for _, item := range items {
		refs = append(refs, item.VariantRef)
	}
	return refs
}
