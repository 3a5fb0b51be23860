// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	knowledgebase "github.com/bbrooksdsq/ai-knowledge-database"
	"github.com/bbrooksdsq/ai-knowledge-database/config"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/reindex"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
)

func main() {
	app := &cli.App{
		Name:  "aikb",
		Usage: "AI knowledge database: ingest documents, search them semantically",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory (overrides AIKB_DB_PATH)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Ingest a document from a file or stdin",
				ArgsUsage: "[file]",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Document title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "File type (text, markdown, pdf, audio_transcript, meeting_notes, teams_recording)",
						Value: string(core.FileTypeText),
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Origin of the document",
						Value: "upload",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "query",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (semantic, keyword)",
						Value: "semantic",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Restrict to file types (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Require documents to carry every given tag (repeatable)",
					},
					&cli.TimestampFlag{
						Name:   "after",
						Usage:  "Only documents created at or after this time",
						Layout: time.RFC3339,
					},
					&cli.TimestampFlag{
						Name:   "before",
						Usage:  "Only documents created at or before this time",
						Layout: time.RFC3339,
					},
				},
			},
			{
				Name:      "related",
				Usage:     "List documents related to a document",
				ArgsUsage: "document-id",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of related documents",
						Value: 5,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-run enrichment and embedding over every document",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "import-recordings",
				Usage:  "Import Microsoft Teams call recordings",
				Action: importRecordingsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days-back",
						Usage: "How many days of call records to scan",
						Value: 7,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase resolves configuration from the environment (and .env) and
// opens the database, preferring the --db flag over AIKB_DB_PATH.
func openDatabase(c *cli.Context) (*knowledgebase.Database, *config.AppConfig, error) {
	cfg := config.Load()

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	db, err := knowledgebase.NewDatabase(dbPath,
		knowledgebase.WithAIConfig(cfg.AIConfig()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	fileType := core.FileType(c.String("type"))
	if err := core.ValidateFileType(fileType); err != nil {
		return err
	}

	var content []byte
	var filePath string
	var err error
	if c.Args().Present() {
		filePath = c.Args().First()
		content, err = os.ReadFile(filePath)
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	doc := &core.Document{
		Title:    c.String("title"),
		Content:  string(content),
		FileType: fileType,
		Source:   c.String("source"),
		FilePath: filePath,
		FileSize: int64(len(content)),
	}
	if err := pipeline.Ingest(ctx, doc); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Added document %d (%q, %d tags)\n", doc.Id, doc.Title, len(doc.Tags))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	mode := c.String("mode")
	if mode != "semantic" && mode != "keyword" {
		return fmt.Errorf("invalid mode %q: must be semantic or keyword", mode)
	}

	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return err
	}

	var resp *core.SearchResponse
	if mode == "keyword" {
		resp = engine.KeywordSearch(ctx, query, "cli", c.Int("limit"), filter)
	} else {
		resp = engine.SemanticSearch(ctx, query, "cli", c.Int("limit"), filter)
	}

	fmt.Printf("%d results in %s\n", resp.Total, resp.Elapsed)
	for i, result := range resp.Results {
		fmt.Printf("%2d. [%.3f] %s (#%d, %s)\n", i+1, result.Score,
			result.Document.Title, result.Document.Id, result.Document.FileType)
		if result.Snippet != "" {
			fmt.Printf("    %s\n", result.Snippet)
		}
	}
	return nil
}

func buildFilter(c *cli.Context) (*storage.DocumentFilter, error) {
	filter := &storage.DocumentFilter{
		Tags: c.StringSlice("tag"),
	}
	for _, t := range c.StringSlice("type") {
		ft := core.FileType(t)
		if err := core.ValidateFileType(ft); err != nil {
			return nil, err
		}
		filter.FileTypes = append(filter.FileTypes, ft)
	}
	if ts := c.Timestamp("after"); ts != nil {
		filter.CreatedAfter = *ts
	}
	if ts := c.Timestamp("before"); ts != nil {
		filter.CreatedBefore = *ts
	}

	if len(filter.FileTypes) == 0 && len(filter.Tags) == 0 &&
		filter.CreatedAfter.IsZero() && filter.CreatedBefore.IsZero() {
		return nil, nil
	}
	return filter, nil
}

func relatedCommand(c *cli.Context) error {
	ctx := context.Background()

	if !c.Args().Present() {
		return fmt.Errorf("document id is required")
	}
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", c.Args().First())
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return err
	}

	related := engine.Related(ctx, core.ID(id), c.Int("limit"))
	if len(related) == 0 {
		fmt.Println("No related documents found")
		return nil
	}
	for i, doc := range related {
		fmt.Printf("%2d. %s (#%d, %s)\n", i+1, doc.Title, doc.Id, doc.FileType)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	reindexer, err := db.NewReindexer(pipeline, reindexConfig, os.Stderr)
	if err != nil {
		return err
	}

	skipped, err := reindexer.Run(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "%d documents skipped after retries\n", skipped)
	}
	return nil
}

func importRecordingsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.HasTeams() {
		return fmt.Errorf("teams credentials not configured: set TEAMS_TENANT_ID, TEAMS_CLIENT_ID and TEAMS_CLIENT_SECRET")
	}

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	importer, err := db.NewTeamsImporter(cfg.TeamsConfig(), pipeline)
	if err != nil {
		return err
	}

	imported, err := importer.Sync(ctx, c.Int("days-back"))
	if err != nil {
		return fmt.Errorf("teams sync failed: %w", err)
	}
	fmt.Printf("Imported %d recordings\n", imported)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
