// Package devseed populates a development database with sample data.
// It is invoked from the admin CLI only and must never run in production.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/target/shopfront-ui-api/internal/data"
	"github.com/target/shopfront-ui-api/internal/domain/model"
	apperrors "github.com/target/shopfront-ui-api/internal/errors"
)

// seedBookmarks are the sample bookmarks created for each dev customer
// account. SKUs are stable so reseeding is idempotent.
var seedBookmarks = []model.CreateBookmarkRequest{
	{ProductSKU: "SKU-HAMMER-01", Title: "Claw Hammer 16oz"},
	{ProductSKU: "SKU-DRILL-18V", Title: "Cordless Drill 18V"},
	{ProductSKU: "SKU-TAPE-5M", Title: "Tape Measure 5m"},
}

// Options controls what Run seeds.
type Options struct {
	// CustomerIDs are the business accounts to seed bookmarks for.
	// Defaults to the dev auth default account when empty.
	CustomerIDs []string
	Logger      *slog.Logger
}

// Run seeds development data. Existing rows are left untouched; duplicate
// bookmarks are skipped so Run can be executed repeatedly.
func Run(ctx context.Context, db *sql.DB, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	customerIDs := opts.CustomerIDs
	if len(customerIDs) == 0 {
		customerIDs = []string{"dev-customer"}
	}

	repo := data.NewBookmarkRepo(db)

	created, skipped := 0, 0
	for _, customerID := range customerIDs {
		for _, req := range seedBookmarks {
			if _, err := repo.Create(ctx, customerID, req); err != nil {
				if apperrors.IsConflict(err) {
					skipped++
					continue
				}
				return fmt.Errorf("seed bookmark %s for %s: %w", req.ProductSKU, customerID, err)
			}
			created++
		}
	}

	logger.InfoContext(ctx, "development data seeded",
		"customers", len(customerIDs),
		"bookmarks_created", created,
		"bookmarks_skipped", skipped,
	)
	return nil
}
