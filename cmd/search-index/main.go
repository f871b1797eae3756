package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tracim/tracim-api/internal/config"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/search"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: search-index <command> [flags]

Commands:
  create    create and configure the content index
  index     push contents to the index (--content_id or --index-all)
  delete    drop the content index`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	contentID := flags.Int64("content_id", 0, "index a single content by id")
	indexAll := flags.Bool("index-all", false, "index every content in the database")
	_ = flags.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MeilisearchURL == "" {
		log.Fatal("MEILISEARCH_URL is not set")
	}

	svc := search.NewService(search.NewMeili(cfg.MeilisearchURL, cfg.MeilisearchAPIKey))

	ctx := context.Background()

	switch command {
	case "create":
		if err := svc.CreateIndex(); err != nil {
			log.Fatalf("Failed to create index: %v", err)
		}
		fmt.Println("content index created")

	case "delete":
		if err := svc.DropIndex(); err != nil {
			log.Fatalf("Failed to delete index: %v", err)
		}
		fmt.Println("content index deleted")

	case "index":
		if *contentID == 0 && !*indexAll {
			usage()
		}

		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		records, err := loadRecords(ctx, db, *contentID)
		if err != nil {
			log.Fatalf("Failed to load contents: %v", err)
		}
		if err := svc.IndexContents(records); err != nil {
			log.Fatalf("Failed to index contents: %v", err)
		}
		fmt.Printf("indexed %d contents\n", len(records))

	default:
		usage()
	}
}

// loadRecords fetches either one content or every content. Deleted and
// archived nodes are indexed too; their flags are filterable.
func loadRecords(ctx context.Context, db *database.DB, contentID int64) ([]search.ContentRecord, error) {
	query := `
		SELECT id, workspace_id, parent_id, content_type, label, slug, status, is_deleted, is_archived
		FROM contents`
	args := []any{}
	if contentID != 0 {
		query += ` WHERE id = $1`
		args = append(args, contentID)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []search.ContentRecord
	for rows.Next() {
		var c models.Content
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.ParentID, &c.Type, &c.Label, &c.Slug, &c.Status, &c.IsDeleted, &c.IsArchived); err != nil {
			return nil, err
		}
		records = append(records, search.RecordOf(&c))
	}
	return records, rows.Err()
}
