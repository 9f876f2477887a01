package container

import (
	"context"
	"fmt"

	"countryvote/internal/config"
	"countryvote/internal/countries"
	"countryvote/internal/repository"
	"countryvote/internal/service"
	"countryvote/pkg/database"
	"countryvote/pkg/logger"
	"countryvote/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	VoteRepo       *repository.VoteRepository
	CountryService *service.CountryService
	VoteService    *service.VoteService
	Leaderboard    *service.LeaderboardService
	RefreshWorker  *service.RefreshWorker
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	countriesClient := countries.NewClient(cfg.CountriesAPIURL, cfg.CountriesAPITimeout, log)

	voteRepo := repository.NewVoteRepository(db)
	countryService := service.NewCountryService(countriesClient, redisClient, log)
	refreshWorker := service.NewRefreshWorker(countryService, voteRepo, log)
	voteService := service.NewVoteService(voteRepo, countryService, refreshWorker, redisClient, log)
	leaderboard := service.NewLeaderboardService(voteRepo, countryService, log)

	return &Container{
		Config:         cfg,
		Logger:         log,
		DB:             db,
		RedisClient:    redisClient,
		VoteRepo:       voteRepo,
		CountryService: countryService,
		VoteService:    voteService,
		Leaderboard:    leaderboard,
		RefreshWorker:  refreshWorker,
	}, nil
}

// Close releases the container's connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
