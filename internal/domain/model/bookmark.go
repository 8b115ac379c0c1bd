//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxBookmarkTitleLen = 255
	maxProductSKULen    = 64
)

// Bookmark is a product saved by a customer account. Bookmarks are scoped to
// the customer, not the signed-in user: everyone acting for the account sees
// the same list.
type Bookmark struct {
	ID         string    `json:"id"          db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	ProductSKU string    `json:"product_sku" db:"product_sku"`
	Title      string    `json:"title"       db:"title"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// CreateBookmarkRequest carries the client-supplied part of a new bookmark.
// The customer id is never part of the request; it comes from the resolved
// request scope.
type CreateBookmarkRequest struct {
	ProductSKU string `json:"product_sku"`
	Title      string `json:"title"`
}

// Validate checks the request fields.
func (r *CreateBookmarkRequest) Validate() error {
	sku := strings.TrimSpace(r.ProductSKU)
	if sku == "" {
		return errors.New("product_sku is required")
	}
	if utf8.RuneCountInString(sku) > maxProductSKULen {
		return errors.New("product_sku is too long")
	}
	if utf8.RuneCountInString(r.Title) > maxBookmarkTitleLen {
		return errors.New("title is too long")
	}
	return nil
}
