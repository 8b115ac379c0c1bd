package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/target/shopfront-ui-api/internal/bootstrap"
	"github.com/target/shopfront-ui-api/internal/data"
	"github.com/target/shopfront-ui-api/internal/devseed"
)

const titleCacheKeyPattern = "customer:title:*"

func runMigrateCommand(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx.Logger, db, nil)

	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "seed timeout")
	allowRemote := fs.Bool("allow-remote", false, "allow seeding a non-local database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*allowRemote && !isLocalHost(cmdCtx.Config.Postgres.Host) {
		return errors.New("refusing to seed a non-local database without -allow-remote")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx.Logger, db, nil)

	if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
		return err
	}

	return devseed.Run(ctx, db, devseed.Options{
		CustomerIDs: cmdCtx.Config.Auth.DevAuth.CustomerIDs,
		Logger:      cmdCtx.Logger,
	})
}

func runListBookmarks(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-bookmarks", flag.ContinueOnError)
	customerID := fs.String("customer", "", "customer account id (required)")
	limit := fs.Int("limit", 50, "maximum number of bookmarks to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *customerID == "" {
		return errors.New("-customer is required")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx.Logger, db, nil)

	bookmarks, err := data.NewBookmarkRepo(db).List(ctx, *customerID, *limit)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "ID\tSKU\tTITLE\tCREATED\n"); err != nil {
		return err
	}
	for _, b := range bookmarks {
		if err := writef(w, "%s\t%s\t%s\t%s\n",
			b.ID, b.ProductSKU, b.Title, b.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}
	return w.Flush()
}

func runClearTitleCache(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-title-cache", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "show how many keys would be cleared without deleting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	_, redisClient, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantRedis: true,
	})
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx.Logger, nil, redisClient)

	cleared := 0
	iter := redisClient.Scan(ctx, 0, titleCacheKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if *dryRun {
			cleared++
			continue
		}
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete key %s: %w", iter.Val(), err)
		}
		cleared++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan title cache: %w", err)
	}

	cmdCtx.Logger.InfoContext(ctx, "title cache cleared", "keys", cleared, "dry_run", *dryRun)
	return nil
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
