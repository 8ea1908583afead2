// Package app assembles the services shared by the api, worker and digest
// binaries from environment configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"smartnotes/internal/config"
	"smartnotes/internal/glossary"
	"smartnotes/internal/infra/adapter/persistence/postgres"
	"smartnotes/internal/infra/adapter/persistence/sqlite"
	"smartnotes/internal/infra/db"
	"smartnotes/internal/infra/fetcher"
	grammarInfra "smartnotes/internal/infra/grammar"
	"smartnotes/internal/infra/inference"
	"smartnotes/internal/infra/summarizer"
	"smartnotes/internal/repository"
	"smartnotes/internal/resilience/circuitbreaker"
	aiUC "smartnotes/internal/usecase/ai"
	grammarUC "smartnotes/internal/usecase/grammar"
)

// OpenStore opens DATABASE_URL, applies pending migrations and returns the
// note repository for the selected backend.
func OpenStore(ctx context.Context) (*sql.DB, repository.NoteRepository, error) {
	conn, dialect, err := db.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := db.MigrateUp(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if dialect == db.Postgres {
		return conn, postgres.NewNoteRepo(conn), nil
	}
	return conn, sqlite.NewNoteRepo(conn), nil
}

// AI is the AI service together with the breakers guarding its remote calls.
type AI struct {
	Service  *aiUC.Service
	Breakers []*circuitbreaker.CircuitBreaker
}

// NewAI builds the AI service from LoadAIConfig. repo may be nil when only
// raw text is digested. With AI_ENABLED=false the service runs on the local
// digest engine alone.
func NewAI(logger *slog.Logger, repo repository.NoteRepository) (AI, error) {
	cfg, err := config.LoadAIConfig()
	if err != nil {
		return AI{}, err
	}

	opts := aiUC.Options{
		Enabled:           cfg.Enabled,
		SummaryMinLength:  cfg.Summary.MinInputLength,
		SummaryInputLimit: cfg.Summary.InputLimit,
		SummaryTimeout:    cfg.Summary.Timeout,
		TagsMinLength:     cfg.Tagging.MinInputLength,
		TagsInputLimit:    cfg.Tagging.InputLimit,
		MinLabelScore:     cfg.Tagging.MinScore,
		MaxLabels:         cfg.Tagging.MaxLabels,
		TagsTimeout:       cfg.Tagging.Timeout,
	}

	if !cfg.Enabled {
		logger.Info("AI features disabled, using local digest engine")
		return AI{Service: aiUC.NewService(nil, nil, repo, opts)}, nil
	}

	hf := inference.NewHuggingFace(cfg.HuggingFace, cfg.CircuitBreaker, nil)
	out := AI{Breakers: []*circuitbreaker.CircuitBreaker{hf.Breaker()}}

	var sum aiUC.Summarizer
	switch cfg.Provider {
	case config.ProviderHuggingFace:
		sum = hf
	case config.ProviderClaude:
		c := summarizer.NewClaude(cfg.AnthropicAPIKey, summarizer.LoadConfig(summarizer.DefaultClaudeModel))
		out.Breakers = append(out.Breakers, c.Breaker())
		sum = c
	case config.ProviderOpenAI:
		o := summarizer.NewOpenAI(cfg.OpenAIAPIKey, summarizer.LoadConfig(summarizer.DefaultOpenAIModel))
		out.Breakers = append(out.Breakers, o.Breaker())
		sum = o
	case config.ProviderLocal:
	}

	logger.Info("AI features enabled",
		slog.String("summary_provider", cfg.Provider),
		slog.String("label_model", cfg.HuggingFace.LabelModel))

	out.Service = aiUC.NewService(sum, hf, repo, opts)
	return out, nil
}

// NewGrammar builds the grammar service. The breaker is nil when grammar
// checking is disabled.
func NewGrammar(logger *slog.Logger) (*grammarUC.Service, *circuitbreaker.CircuitBreaker, error) {
	cfg, err := config.LoadGrammarConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Enabled {
		logger.Info("grammar checking disabled")
		return grammarUC.NewService(nil), nil, nil
	}
	lt := grammarInfra.NewLanguageTool(*cfg, nil)
	logger.Info("grammar checking enabled",
		slog.String("url", cfg.URL),
		slog.String("language", cfg.Language))
	return grammarUC.NewService(lt), lt.Breaker(), nil
}

// NewFetcher builds the web clipper used by POST /notes/import.
func NewFetcher(logger *slog.Logger) (*fetcher.ReadabilityFetcher, error) {
	cfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	logger.Info("web clipping configured",
		slog.Duration("timeout", cfg.Timeout),
		slog.Int64("max_body_size", cfg.MaxBodySize),
		slog.Bool("deny_private_ips", cfg.DenyPrivateIPs))
	return fetcher.NewReadabilityFetcher(cfg), nil
}

// LoadGlossary merges GLOSSARY_FILE over the built-in terms when it is set.
func LoadGlossary(logger *slog.Logger) (*glossary.Glossary, error) {
	path := os.Getenv("GLOSSARY_FILE")
	if path == "" {
		return glossary.Default(), nil
	}
	g, err := glossary.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("glossary loaded", slog.String("path", path), slog.Int("terms", len(g.Terms())))
	return g, nil
}
