package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ranwtech/site/internal/sitemap"
	"github.com/ranwtech/site/internal/storage"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/spf13/cobra"
)

// newObjectStore is replaced in tests.
var newObjectStore = func(ctx context.Context, b *backend) (storage.ObjectStore, error) {
	if b.cfg.MinIO.Endpoint == "" {
		return nil, fmt.Errorf("--upload needs MINIO_ENDPOINT")
	}
	return storage.NewMinIOStorage(ctx, b.cfg.MinIO)
}

func newSitemapCmd() *cobra.Command {
	var out string
	var upload bool
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Regenerate sitemap.xml from the published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				return runSitemap(ctx, b, out, upload, time.Now())
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "public/sitemap.xml", "file to write; empty skips the local copy")
	cmd.Flags().BoolVar(&upload, "upload", false, "also store the sitemap in object storage")
	return cmd
}

func runSitemap(ctx context.Context, b *backend, out string, upload bool, now time.Time) error {
	arts, err := b.articles.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list articles: %w", err)
	}
	xml, err := sitemap.Build(b.cfg.Site.URL, arts, now)
	if err != nil {
		return err
	}
	if out != "" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, xml, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Infof("wrote %s (%d articles)", out, len(arts))
	}
	if upload {
		store, err := newObjectStore(ctx, b)
		if err != nil {
			return err
		}
		if err := storage.PutSitemap(ctx, store, xml); err != nil {
			return fmt.Errorf("upload sitemap: %w", err)
		}
		logger.Infof("uploaded %s", storage.SitemapKey)
	}
	if out == "" && !upload {
		_, err = os.Stdout.Write(xml)
		return err
	}
	return nil
}
