package main

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/jmloader/adapters/aws/s3/s3storage"
	"github.com/Abraxas-365/jmloader/export"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	flags := &loaderFlags{}
	var (
		bucket  string
		key     string
		prefix  string
		presign time.Duration
		gzip    bool
	)

	cmd := &cobra.Command{
		Use:   "export <file> <query>",
		Short: "Upload the extracted documents to S3 as JSON Lines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, root.cfg.Loader)
			o := overlay{cmd}
			o.str("bucket", &bucket, root.cfg.Export.Bucket)
			o.str("key", &key, root.cfg.Export.Key)
			o.str("prefix", &prefix, root.cfg.Export.Prefix)
			o.dur("presign", &presign, root.cfg.Export.Presign)
			o.boolean("gzip", &gzip, boolPtr(root.cfg.Export.Gzip))

			if bucket == "" {
				return fmt.Errorf("--bucket is required")
			}

			ctx := cmd.Context()
			docs, err := flags.load(ctx, args[0], args[1], root.logger)
			if err != nil {
				return err
			}

			awsCfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}
			store := s3storage.NewS3Store(s3.NewFromConfig(awsCfg), bucket)

			exporter := export.New(store,
				export.WithPrefix(prefix),
				export.WithGzip(gzip),
				export.WithLogger(root.logger),
			)
			written, err := exporter.Export(ctx, key, docs)
			if err != nil {
				return err
			}
			root.logger.Info("export complete",
				zap.String("bucket", bucket),
				zap.String("key", written),
				zap.Int("documents", len(docs)))

			out := fmt.Sprintf("s3://%s/%s", bucket, written)
			if presign > 0 {
				url, err := store.GetPresignedGetURL(ctx, written, presign)
				if err != nil {
					return err
				}
				out = url.URL
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Destination S3 bucket")
	cmd.Flags().StringVar(&key, "key", "", "Object key (default: <prefix>/<uuid>.jsonl)")
	cmd.Flags().StringVar(&prefix, "prefix", "exports", "Key prefix used when --key is empty")
	cmd.Flags().BoolVar(&gzip, "gzip", false, "Compress the object with gzip")
	cmd.Flags().DurationVar(&presign, "presign", 0, "Print a presigned GET URL valid for this long")
	return cmd
}
