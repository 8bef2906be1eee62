package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryBackend() *backend {
	cfg := &config.Config{}
	cfg.Site.URL = "https://www.ranw.tech"
	return &backend{
		cfg:       cfg,
		articles:  articles.NewService(articles.NewMemoryRepo()),
		prospects: prospects.NewService(prospects.NewMemoryRepo(), imports.NewMemoryStore()),
	}
}

type recordingStore struct {
	objects map[string][]byte
}

func (s *recordingStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	s.objects[key] = b
	return err
}

func (s *recordingStore) PresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func TestRunSitemap(t *testing.T) {
	ctx := context.Background()
	b := memoryBackend()
	_, err := b.articles.Save(ctx, articles.Input{Slug: "cyber", Status: articles.StatusPublished, TitleEn: "Cyber"}, "")
	require.NoError(t, err)
	_, err = b.articles.Save(ctx, articles.Input{Slug: "hidden", TitleEn: "Draft"}, "")
	require.NoError(t, err)

	store := &recordingStore{objects: map[string][]byte{}}
	prev := newObjectStore
	newObjectStore = func(context.Context, *backend) (storage.ObjectStore, error) { return store, nil }
	t.Cleanup(func() { newObjectStore = prev })

	out := filepath.Join(t.TempDir(), "public", "sitemap.xml")
	require.NoError(t, runSitemap(ctx, b, out, true, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), "https://www.ranw.tech/articles/cyber")
	assert.NotContains(t, string(written), "hidden")
	assert.Equal(t, written, store.objects[storage.SitemapKey])
}

func TestRunImport(t *testing.T) {
	ctx := context.Background()
	b := memoryBackend()
	path := filepath.Join(t.TempDir(), "public_150.csv")
	require.NoError(t, os.WriteFile(path, []byte("Company;CEO\nAcme;Dana\nBeta;Yossi\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runImport(ctx, b, path, true, &out))
	assert.Contains(t, out.String(), "2 rows (csv), nothing written")
	list, err := b.prospects.List(ctx, prospects.Query{})
	require.NoError(t, err)
	assert.Empty(t, list)

	out.Reset()
	require.NoError(t, runImport(ctx, b, path, false, &out))
	assert.True(t, strings.HasPrefix(out.String(), "public_150.csv: imported 2 rows, replaced 0"))
	list, err = b.prospects.List(ctx, prospects.Query{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", prospects.Company(list[0]))

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	assert.Error(t, runImport(ctx, b, empty, false, &out))
}

func TestImportCommandArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"import-prospects"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
