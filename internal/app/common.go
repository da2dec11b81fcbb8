package app

import (
	"fmt"

	"github.com/reposcout/reposcout/internal/repositories"
	"github.com/reposcout/reposcout/internal/services"
	"github.com/reposcout/reposcout/pkg/config"
	"github.com/reposcout/reposcout/pkg/database"
	"github.com/reposcout/reposcout/pkg/logger"
)

// appServices bundles everything a command needs, opened once per invocation
type appServices struct {
	cfg      *config.Config
	history  *services.HistoryService
	search   *services.SearchService
	analyzer *services.AnalyzerService
	export   *services.ExportService

	close func() error
}

func openServices() (*appServices, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagDBPath != "" {
		cfg.Database.Path = flagDBPath
	}

	logger.Init()

	db, err := database.Init(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	trackedRepoRepo := repositories.NewTrackedRepositoryRepository(db)
	searchEventRepo := repositories.NewSearchEventRepository(db)
	history := services.NewHistoryService(trackedRepoRepo, searchEventRepo)

	githubClient := services.NewGithubClient(cfg.GitHub.Token)
	provider := services.NewGithubSearchService(githubClient)
	scorer := services.NewScorerService(cfg.Search.AllowedLicenses)

	return &appServices{
		cfg:      cfg,
		history:  history,
		search:   services.NewSearchService(provider, history, scorer),
		analyzer: services.NewAnalyzerService(githubClient),
		export:   services.NewExportService(history),
		close:    db.Close,
	}, nil
}

func (a *appServices) Close() error {
	return a.close()
}

// resolveUser returns the history namespace for this invocation
func resolveUser() string {
	if flagUser != "" {
		return flagUser
	}
	return config.DefaultUserID()
}
