package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsup/common"
	"newsup/export"
	"newsup/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd() *cobra.Command {
	var (
		papers       []string
		date         string
		skipExisting bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a day's article listing of each newspaper to S3 as JSON",
		Long: `Export pages through the by-date listing of each newspaper and writes
<prefix>papers/<paper>/<date>.json to the configured S3 bucket.
Without --paper every configured newspaper is exported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				return errors.New("--date is required")
			}
			if len(papers) == 0 {
				papers = cfg.Newspapers
			}
			if len(papers) == 0 {
				return errors.New("no newspapers given: use --paper or configure newspapers")
			}
			if cfg.S3.Bucket == "" {
				return errors.New("S3 bucket is not configured")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runExport(ctx, papers, date, skipExisting)
		},
	}

	cmd.Flags().StringSliceVarP(&papers, "paper", "p", nil, "newspaper collection to export (repeatable)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date key to export, as stored in the articles")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "leave snapshots that already exist untouched")
	return cmd
}

func runExport(ctx context.Context, papers []string, date string, skipExisting bool) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.NewMongo(connectCtx, store.Config{
		URI:                 cfg.Mongo.URI,
		NewsDatabase:        cfg.Mongo.NewsDatabase,
		ResourcesDatabase:   cfg.Mongo.ResourcesDatabase,
		ResourcesCollection: cfg.Mongo.ResourcesCollection,
	})
	cancel()
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	s3c, err := common.NewS3(ctx, common.S3Config{
		Region:       cfg.S3.Region,
		Profile:      cfg.S3.Profile,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to init S3 client: %w", err)
	}

	exporter := export.NewExporter(db, s3c, cfg.S3.Bucket, cfg.S3KeyPrefix(), logger)

	failed := 0
	for _, paper := range papers {
		uctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		res, err := exporter.Export(uctx, paper, date, skipExisting)
		cancel()
		if err != nil {
			failed++
			logger.Error("export failed", zap.String("paper", paper), zap.String("date", date), zap.Error(err))
			continue
		}
		if !res.Skipped {
			logger.Info("export complete", zap.String("paper", paper), zap.Int("articles", res.Articles))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(papers))
	}
	return nil
}
