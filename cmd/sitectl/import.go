package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ranwtech/site/internal/ingest"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-prospects <file>",
		Short: "Replace the prospect list with the rows of a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				return runImport(ctx, b, args[0], dryRun, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	return cmd
}

func runImport(ctx context.Context, b *backend, path string, dryRun bool, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	format := ingest.FormatOf(name, data)
	rows, err := ingest.Parse(format, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if dryRun {
		fmt.Fprintf(w, "%s: %d rows (%s), nothing written\n", name, len(rows), format)
		return nil
	}
	job, err := b.prospects.ReplaceAll(ctx, rows, format, name)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	fmt.Fprintf(w, "%s: imported %d rows, replaced %d (job %s)\n", name, job.Rows, job.Deleted, job.JobID)
	return nil
}
