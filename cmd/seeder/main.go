// Seeder loads sample documents into a knowledge base for manual testing.
// With -src it ingests one document per line from a file; otherwise it uses
// the built-in samples.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	knowledgebase "github.com/bbrooksdsq/ai-knowledge-database"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/ingestion"
)

type sample struct {
	title    string
	content  string
	fileType core.FileType
}

var samples = []sample{
	{
		title:    "Q3 planning meeting",
		fileType: core.FileTypeMeetingNotes,
		content: "Attendees agreed to move the search rollout to September. " +
			"The embedding model upgrade is blocked on the GPU budget review. " +
			"Alice owns the migration plan, Bob drafts the customer announcement. " +
			"Next sync on Thursday to review the reindex timing.",
	},
	{
		title:    "Storage engine notes",
		fileType: core.FileTypeMarkdown,
		content: "BadgerDB keeps keys in an LSM tree and values in a value log. " +
			"Our repositories serialize records with hand-written binary serializers " +
			"and keep a creation-date index for ordered listing. Chunk records carry " +
			"a format version byte so old databases stay readable after upgrades.",
	},
	{
		title:    "Support call transcript",
		fileType: core.FileTypeAudioTranscript,
		content: "Customer reported slow search responses on large documents. " +
			"We walked through the chunk size configuration and suggested lowering " +
			"it from 1000 to 500 characters. The customer will retry the reindex " +
			"and report back next week.",
	},
	{
		title:    "Onboarding guide",
		fileType: core.FileTypeText,
		content: "New documents go through the ingestion pipeline: validation, " +
			"summary, tags, entity extraction, then chunking and embedding. " +
			"Search works without any AI provider configured, falling back to " +
			"keyword matching over titles and content.",
	},
	{
		title:    "Release retrospective",
		fileType: core.FileTypeMeetingNotes,
		content: "The August release shipped semantic search and the Teams " +
			"importer. Transcription quality was good but speaker identification " +
			"needs a better prompt. We will keep the keyword fallback as the " +
			"default for air-gapped installs.",
	},
}

var (
	seedFileName = flag.String("src", "", "file of seed documents, one per line")
	dbPath       = flag.String("db", "./knowledge_db", "database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// samplesFromFile returns an iterator over documents built from lines in a
// file. The first few words of each line become the title.
func samplesFromFile(filename string) (iter.Seq[sample], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(sample) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(sample{
				title:    titleFor(line),
				content:  line,
				fileType: core.FileTypeText,
			}) {
				return
			}
		}
	}, nil
}

func titleFor(line string) string {
	words := strings.Fields(line)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

func samplesFromSlice(docs []sample) iter.Seq[sample] {
	return func(yield func(sample) bool) {
		for _, doc := range docs {
			if !yield(doc) {
				return
			}
		}
	}
}

func ingestAll(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[sample]) error {
	count := 0
	for s := range source {
		doc := &core.Document{
			Title:    s.title,
			Content:  s.content,
			FileType: s.fileType,
			Source:   "seeder",
			FileSize: int64(len(s.content)),
		}
		if err := pipeline.Ingest(ctx, doc); err != nil {
			return fmt.Errorf("seeding %q: %w", s.title, err)
		}
		count++
	}
	slog.Info("seeding complete", "documents", count)
	return nil
}

func main() {
	db, err := knowledgebase.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	var source iter.Seq[sample]
	if *seedFileName != "" {
		source, err = samplesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = samplesFromSlice(samples)
	}

	if err := ingestAll(ctx, pipeline, source); err != nil {
		panic(err)
	}
}
