package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartnotes/internal/domain/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStore_SQLite(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	conn, repo, err := OpenStore(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	n := &entity.Note{Title: "Hello", Content: "World"}
	require.NoError(t, repo.Create(ctx, n))
	got, err := repo.Get(ctx, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Hello", got.Title)
}

func TestNewAI(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		breakers int
		wantErr  bool
	}{
		{name: "disabled", env: map[string]string{"AI_ENABLED": "false"}, breakers: 0},
		{name: "huggingface", env: map[string]string{"AI_SUMMARY_PROVIDER": "huggingface"}, breakers: 1},
		{name: "local summaries with remote tags", env: map[string]string{"AI_SUMMARY_PROVIDER": "local"}, breakers: 1},
		{name: "claude", env: map[string]string{"AI_SUMMARY_PROVIDER": "claude", "ANTHROPIC_API_KEY": "sk-ant-test"}, breakers: 2},
		{name: "openai", env: map[string]string{"AI_SUMMARY_PROVIDER": "openai", "OPENAI_API_KEY": "sk-test"}, breakers: 2},
		{name: "claude without key", env: map[string]string{"AI_SUMMARY_PROVIDER": "claude", "ANTHROPIC_API_KEY": ""}, wantErr: true},
		{name: "unknown provider", env: map[string]string{"AI_SUMMARY_PROVIDER": "cohere"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := NewAI(discardLogger(), nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got.Service)
			assert.Len(t, got.Breakers, tt.breakers)
		})
	}
}

func TestNewGrammar(t *testing.T) {
	t.Setenv("GRAMMAR_ENABLED", "false")
	svc, breaker, err := NewGrammar(discardLogger())
	require.NoError(t, err)
	assert.Nil(t, breaker)
	assert.Empty(t, svc.Check(context.Background(), "Their is a mistake."))

	t.Setenv("GRAMMAR_ENABLED", "true")
	svc, breaker, err = NewGrammar(discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.NotNil(t, breaker)
}

func TestLoadGlossary(t *testing.T) {
	g, err := LoadGlossary(discardLogger())
	require.NoError(t, err)
	assert.Len(t, g.Terms(), 4)

	path := filepath.Join(t.TempDir(), "glossary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Go: A compiled language\n"), 0o600))
	t.Setenv("GLOSSARY_FILE", path)

	g, err = LoadGlossary(discardLogger())
	require.NoError(t, err)
	_, ok := g.Lookup("go")
	assert.True(t, ok)

	t.Setenv("GLOSSARY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadGlossary(discardLogger())
	assert.Error(t, err)
}
