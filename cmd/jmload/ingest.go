package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Abraxas-365/jmloader/adapters/aws/bedrock"
	"github.com/Abraxas-365/jmloader/adapters/openai"
	"github.com/Abraxas-365/jmloader/adapters/pgvectore"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/embedding"
	"github.com/Abraxas-365/jmloader/kb"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type ingestFlags struct {
	embedder     string
	model        string
	databaseURL  string
	table        string
	dimension    int
	chunkTokens  int
	chunkOverlap int
	recreate     bool
}

func (f *ingestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.embedder, "embedder", "e", "openai", "Embedding provider: openai or bedrock")
	cmd.Flags().StringVar(&f.model, "model", "", "Embedding model (default: provider default)")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", "", "Postgres connection string (default: $DATABASE_URL)")
	cmd.Flags().StringVar(&f.table, "table", "documents", "pgvector table")
	cmd.Flags().IntVar(&f.dimension, "dimension", 1536, "Embedding dimension")
	cmd.Flags().IntVar(&f.chunkTokens, "chunk-tokens", 512, "Tokens per chunk (0 = no splitting)")
	cmd.Flags().IntVar(&f.chunkOverlap, "chunk-overlap", 64, "Tokens shared by consecutive chunks")
	cmd.Flags().BoolVar(&f.recreate, "recreate", false, "Drop and recreate the table first")
}

func (f *ingestFlags) apply(cmd *cobra.Command, cfg IngestConfig) {
	o := overlay{cmd}
	o.str("embedder", &f.embedder, cfg.Embedder)
	o.str("model", &f.model, cfg.Model)
	o.str("database-url", &f.databaseURL, cfg.DatabaseURL)
	o.str("table", &f.table, cfg.Table)
	o.num("dimension", &f.dimension, cfg.Dimension)
	o.num("chunk-tokens", &f.chunkTokens, cfg.ChunkTokens)
	o.num("chunk-overlap", &f.chunkOverlap, cfg.ChunkOverlap)
	o.boolean("recreate", &f.recreate, boolPtr(cfg.Recreate))

	if f.databaseURL == "" {
		f.databaseURL = os.Getenv("DATABASE_URL")
	}
}

func (f *ingestFlags) newEmbedder(ctx context.Context) (embedding.Embedder, error) {
	var opts []embedding.Option
	if f.model != "" {
		opts = append(opts, embedding.WithModel(f.model))
	}

	switch f.embedder {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return openai.NewOpenAIEmbedder(apiKey, opts...), nil
	case "bedrock":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		opts = append(opts, embedding.WithDimensions(f.dimension))
		return bedrock.NewBedrockEmbedder(bedrockruntime.NewFromConfig(awsCfg), opts...), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", f.embedder)
	}
}

func (f *ingestFlags) newSplitter() (document.Splitter, error) {
	if f.chunkTokens <= 0 {
		return nil, nil
	}
	return document.NewTiktokenSplitter(f.chunkTokens, f.chunkOverlap, f.model)
}

func newIngestCmd(root *rootOptions) *cobra.Command {
	flags := &loaderFlags{}
	ingest := &ingestFlags{}

	cmd := &cobra.Command{
		Use:   "ingest <file> <query>",
		Short: "Embed the extracted documents and store them in pgvector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, root.cfg.Loader)
			ingest.apply(cmd, root.cfg.Ingest)

			if ingest.databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			ctx := cmd.Context()

			loader, err := flags.newLoader(args[0], args[1], root.logger)
			if err != nil {
				return err
			}
			embedder, err := ingest.newEmbedder(ctx)
			if err != nil {
				return err
			}
			splitter, err := ingest.newSplitter()
			if err != nil {
				return err
			}

			store, err := pgvectore.NewPGVectorStore(ctx, ingest.databaseURL, pgvectore.Options{
				TableName: ingest.table,
				Dimension: ingest.dimension,
				Distance:  pgvectore.Cosine,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			base := kb.New(embedder, store, splitter, kb.WithLogger(root.logger))
			if err := base.InitStore(ctx, ingest.recreate); err != nil {
				return err
			}

			n, err := base.Ingest(ctx, loader, flags.loadOptions()...)
			if err != nil {
				return err
			}
			root.logger.Info("ingest complete",
				zap.String("file", loader.FilePath()),
				zap.String("table", ingest.table),
				zap.Int("chunks", n))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d chunks stored in %s\n", n, ingest.table)
			return err
		},
	}
	flags.register(cmd)
	ingest.register(cmd)
	return cmd
}
