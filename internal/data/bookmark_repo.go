package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/target/shopfront-ui-api/internal/data/pgxutil"
	"github.com/target/shopfront-ui-api/internal/domain/model"
	apperrors "github.com/target/shopfront-ui-api/internal/errors"
)

const defaultBookmarkListLimit = 100

// BookmarkRepo provides bookmark persistence. Every query is scoped by
// customer id; there is no way to read or write another account's rows.
type BookmarkRepo struct {
	DB *sql.DB
}

// NewBookmarkRepo creates a new BookmarkRepo.
func NewBookmarkRepo(db *sql.DB) *BookmarkRepo {
	return &BookmarkRepo{DB: db}
}

// Create inserts a bookmark for the customer. A duplicate product SKU for the
// same customer yields a Conflict error.
func (r *BookmarkRepo) Create(ctx context.Context, customerID string, req model.CreateBookmarkRequest) (*model.Bookmark, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var bookmark model.Bookmark
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO bookmarks (customer_id, product_sku, title)
			VALUES ($1, $2, $3)
			RETURNING id, customer_id, product_sku, title, created_at`,
			customerID, req.ProductSKU, req.Title)
		if err != nil {
			return err
		}
		defer rows.Close()
		bookmark, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Bookmark])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &bookmark, nil
}

// List returns the customer's bookmarks, newest first.
func (r *BookmarkRepo) List(ctx context.Context, customerID string, limit int) ([]model.Bookmark, error) {
	if limit <= 0 {
		limit = defaultBookmarkListLimit
	}

	var bookmarks []model.Bookmark
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, customer_id, product_sku, title, created_at
			FROM bookmarks
			WHERE customer_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2`,
			customerID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		bookmarks, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Bookmark])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	return bookmarks, nil
}

// Delete removes a bookmark owned by the customer. Deleting a bookmark that
// does not exist, or that belongs to another customer, yields NotFound.
func (r *BookmarkRepo) Delete(ctx context.Context, customerID, bookmarkID string) error {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			DELETE FROM bookmarks
			WHERE id = $1 AND customer_id = $2`,
			bookmarkID, customerID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if deleted == 0 {
		return apperrors.NotFound("bookmark not found")
	}
	return nil
}
