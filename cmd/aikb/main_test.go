package main

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func newFilterContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	var captured *cli.Context
	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "type"},
			&cli.StringSliceFlag{Name: "tag"},
			&cli.TimestampFlag{Name: "after", Layout: time.RFC3339},
			&cli.TimestampFlag{Name: "before", Layout: time.RFC3339},
		},
		Action: func(c *cli.Context) error {
			captured = c
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	require.NotNil(t, captured)
	return captured
}

func TestBuildFilter(t *testing.T) {
	t.Run("no flags yields nil filter", func(t *testing.T) {
		filter, err := buildFilter(newFilterContext(t))
		require.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("types and tags", func(t *testing.T) {
		ctx := newFilterContext(t,
			"--type", "markdown", "--type", "pdf", "--tag", "planning")
		filter, err := buildFilter(ctx)
		require.NoError(t, err)
		require.NotNil(t, filter)
		assert.True(t, slices.Contains(filter.FileTypes, core.FileTypeMarkdown))
		assert.True(t, slices.Contains(filter.FileTypes, core.FileTypePDF))
		assert.Equal(t, []string{"planning"}, filter.Tags)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := buildFilter(newFilterContext(t, "--type", "spreadsheet"))
		require.Error(t, err)
	})
}

func TestSearchCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "aikb",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Value: "semantic"},
					&cli.IntFlag{Name: "limit", Value: 10},
					&cli.StringSliceFlag{Name: "type"},
					&cli.StringSliceFlag{Name: "tag"},
					&cli.TimestampFlag{Name: "after", Layout: time.RFC3339},
					&cli.TimestampFlag{Name: "before", Layout: time.RFC3339},
				},
			},
		},
	}

	t.Run("empty query fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "search"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is required")
	})

	t.Run("invalid mode fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "search", "--mode", "fuzzy", "badger"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mode")
	})
}

func TestRelatedCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "aikb",
		Commands: []*cli.Command{
			{
				Name:   "related",
				Action: relatedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 5},
				},
			},
		},
	}

	t.Run("missing id fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "related"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document id is required")
	})

	t.Run("non-numeric id fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "related", "first"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid document id")
	})
}

func TestReindexCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "aikb",
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "batch-size", Value: 100},
					&cli.IntFlag{Name: "workers", Value: 4},
					&cli.IntFlag{Name: "report-interval", Value: 100},
					&cli.IntFlag{Name: "max-retries", Value: 3},
					&cli.DurationFlag{Name: "retry-delay", Value: time.Second},
				},
			},
		},
	}

	t.Run("zero batch-size fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "reindex", "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})

	t.Run("zero workers fails", func(t *testing.T) {
		err := app.Run([]string{"aikb", "reindex", "--workers", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
	})
}
