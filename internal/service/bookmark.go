package service

import (
	"context"

	"github.com/target/shopfront-ui-api/internal/domain/model"
)

// BookmarkStore is the persistence surface BookmarkService needs.
// Implemented by data.BookmarkRepo.
type BookmarkStore interface {
	Create(ctx context.Context, customerID string, req model.CreateBookmarkRequest) (*model.Bookmark, error)
	List(ctx context.Context, customerID string, limit int) ([]model.Bookmark, error)
	Delete(ctx context.Context, customerID, bookmarkID string) error
}

const maxBookmarkListLimit = 200

// BookmarkService exposes bookmark operations scoped to a resolved customer
// id. Callers must pass the trusted id from the request scope, never a
// client-supplied value.
type BookmarkService struct {
	store BookmarkStore
}

// NewBookmarkService constructs a new BookmarkService.
func NewBookmarkService(store BookmarkStore) *BookmarkService {
	return &BookmarkService{store: store}
}

// Create saves a bookmark for the active customer.
func (s *BookmarkService) Create(ctx context.Context, customerID string, req model.CreateBookmarkRequest) (*model.Bookmark, error) {
	return s.store.Create(ctx, customerID, req)
}

// List returns the active customer's bookmarks.
func (s *BookmarkService) List(ctx context.Context, customerID string, limit int) ([]model.Bookmark, error) {
	if limit <= 0 || limit > maxBookmarkListLimit {
		limit = maxBookmarkListLimit
	}
	return s.store.List(ctx, customerID, limit)
}

// Delete removes one of the active customer's bookmarks.
func (s *BookmarkService) Delete(ctx context.Context, customerID, bookmarkID string) error {
	return s.store.Delete(ctx, customerID, bookmarkID)
}
