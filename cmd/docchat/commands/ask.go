package commands

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/54b3r/docchat-go/internal/embedder"
	"github.com/54b3r/docchat-go/internal/ingestion"
	"github.com/54b3r/docchat-go/internal/logging"
	"github.com/54b3r/docchat-go/internal/provider"
	"github.com/54b3r/docchat-go/internal/qa"
	"github.com/54b3r/docchat-go/internal/rag"
)

// NewAskCmd constructs the `docchat ask` command, which ingests a local
// document and answers a single question about it in one shot.
func NewAskCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about a local document",
		Long: `Ingest a local document and answer one question grounded in its content.

The document is converted to plain text, embedded, and the best matching
passage is injected into the model prompt. The answer comes strictly from
the document — nothing is persisted between invocations.

Examples:
  docchat ask --file resume.pdf "what languages does the candidate know?"
  docchat ask --file notes.txt "summarise the key decisions"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			if file == "" {
				return fmt.Errorf("ask: --file is required")
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("ask: failed to read %s: %w", file, err)
			}
			mimeType := mime.TypeByExtension(filepath.Ext(file))
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}

			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("ask: failed to initialise embedder: %w", err)
			}

			extractor, err := buildExtractor(ctx)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			docStore := rag.NewMemoryStore()
			pipeline, err := ingestion.NewPipeline(extractor, emb, docStore)
			if err != nil {
				return fmt.Errorf("ask: failed to create ingestion pipeline: %w", err)
			}

			result, err := pipeline.Ingest(ctx, data, mimeType, filepath.Base(file))
			if err != nil {
				return fmt.Errorf("ask: failed to ingest %s: %w", file, err)
			}
			fmt.Fprintf(os.Stderr, "ingested %s (%d characters)\n", filepath.Base(file), result.Characters)

			chatModel, err := provider.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ask: failed to initialise model provider: %w", err)
			}

			retriever, err := rag.NewRetriever(emb, docStore)
			if err != nil {
				return fmt.Errorf("ask: failed to create retriever: %w", err)
			}

			orchestrator, err := qa.New(&qa.Config{
				Retriever: retriever,
				ChatModel: chatModel,
			})
			if err != nil {
				return fmt.Errorf("ask: failed to initialise orchestrator: %w", err)
			}

			answer, err := orchestrator.Answer(ctx, "", args[0])
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the document to ingest (PDF or text)")

	return cmd
}
