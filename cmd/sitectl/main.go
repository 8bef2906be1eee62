// Command sitectl runs maintenance jobs against the site's datastore: regenerating
// the sitemap and bulk-loading the prospect list from a spreadsheet export.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/database"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/spf13/cobra"
)

// backend is what the subcommands operate on.
type backend struct {
	cfg       *config.Config
	articles  *articles.Service
	prospects *prospects.Service
	close     func()
}

// openBackend connects to MongoDB. Tests replace it with in-memory services.
var openBackend = func(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.MongoDB.URI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 3)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB.Database)
	return &backend{
		cfg:      cfg,
		articles: articles.NewService(articles.NewMongoRepo(db.Collection(database.ArticlesCollection))),
		prospects: prospects.NewService(
			prospects.NewMongoRepo(db.Collection(database.ProspectsCollection)),
			imports.NewMongoStore(db.Collection(database.ImportJobsCollection)),
		),
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Maintenance jobs for the ranw site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logger.Init(level)
		},
	}
	root.PersistentFlags().String("log-level", "info", "debug|info|warn|error")
	root.AddCommand(newSitemapCmd(), newImportCmd())
	return root
}

// withBackend loads config, opens the datastore and runs fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	if b.close != nil {
		defer b.close()
	}
	return fn(ctx, b)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "sitectl:", err)
		os.Exit(1)
	}
}
