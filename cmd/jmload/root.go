package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Abraxas-365/jmloader/datasource"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/jsonloader"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *Config
	logger     *zap.Logger
}

// loaderFlags are shared by every command that reads a JSON file.
type loaderFlags struct {
	contentKeyFlag string
	contentKey     *string
	textContent    bool
	metadataFields []string
	listToString   bool
	maxItems       int
}

func (f *loaderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.contentKeyFlag, "content-key", "k", "", "Record field used as page content (default: whole record)")
	cmd.Flags().BoolVar(&f.textContent, "text-content", true, "Require page content to be a JSON string")
	cmd.Flags().StringSliceVarP(&f.metadataFields, "metadata-field", "m", nil, "Record field copied into metadata (repeatable)")
	cmd.Flags().BoolVar(&f.listToString, "list-to-string", false, "Join array metadata values with \", \"")
	cmd.Flags().IntVar(&f.maxItems, "max-items", 0, "Stop after this many documents (0 = all)")
}

func (f *loaderFlags) apply(cmd *cobra.Command, cfg LoaderConfig) {
	o := overlay{cmd}
	// "" is a valid key, so presence comes from the flag or the file
	switch {
	case cmd.Flags().Changed("content-key"):
		f.contentKey = &f.contentKeyFlag
	case cfg.ContentKey != nil:
		f.contentKey = cfg.ContentKey
	}
	o.boolean("text-content", &f.textContent, cfg.TextContent)
	o.list("metadata-field", &f.metadataFields, cfg.MetadataFields)
	o.boolean("list-to-string", &f.listToString, boolPtr(cfg.ListToString))
	o.num("max-items", &f.maxItems, cfg.MaxItems)
}

func (f *loaderFlags) newLoader(path, query string, logger *zap.Logger) (*jsonloader.Loader, error) {
	var transforms []jsonloader.MetadataFunc
	if len(f.metadataFields) > 0 {
		transforms = append(transforms, jsonloader.RecordFields(f.metadataFields...))
	}
	if f.listToString {
		transforms = append(transforms, jsonloader.ListToString)
	}

	opts := []jsonloader.Option{
		jsonloader.WithTextContent(f.textContent),
		jsonloader.WithLogger(logger),
	}
	if f.contentKey != nil {
		opts = append(opts, jsonloader.WithContentKey(*f.contentKey))
	}
	if len(transforms) > 0 {
		opts = append(opts, jsonloader.WithMetadataFunc(jsonloader.Chain(transforms...)))
	}
	return jsonloader.New(path, query, opts...)
}

func (f *loaderFlags) loadOptions() []datasource.Option {
	return []datasource.Option{datasource.WithMaxItems(f.maxItems)}
}

func (f *loaderFlags) load(ctx context.Context, path, query string, logger *zap.Logger) ([]document.Document, error) {
	loader, err := f.newLoader(path, query, logger)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, f.loadOptions()...)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jmload",
		Short:         "Extract documents from JSON files with JMESPath",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			if opts.logger == nil {
				logger, err := newLogger(opts.verbose)
				if err != nil {
					return err
				}
				opts.logger = logger
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		newLoadCmd(opts),
		newExportCmd(opts),
		newIngestCmd(opts),
	)
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newLoadCmd(root *rootOptions) *cobra.Command {
	flags := &loaderFlags{}

	cmd := &cobra.Command{
		Use:   "load <file> <query>",
		Short: "Print the documents extracted from a JSON file as a JSON array",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, root.cfg.Loader)

			docs, err := flags.load(cmd.Context(), args[0], args[1], root.logger)
			if err != nil {
				return err
			}
			return writeDocuments(cmd.OutOrStdout(), docs)
		},
	}
	flags.register(cmd)
	return cmd
}

func writeDocuments(w io.Writer, docs []document.Document) error {
	if docs == nil {
		docs = []document.Document{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}
