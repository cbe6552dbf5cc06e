package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/boulodrome/petanque-nights/internal/config"
	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	"github.com/boulodrome/petanque-nights/internal/domain/team"
	"github.com/boulodrome/petanque-nights/internal/infrastructure/account/clubauth"
	"github.com/boulodrome/petanque-nights/internal/infrastructure/repository/memory"
	"github.com/boulodrome/petanque-nights/internal/infrastructure/repository/postgres"
	"github.com/boulodrome/petanque-nights/internal/interfaces/httpapi"
	"github.com/boulodrome/petanque-nights/internal/platform/cache"
	idgen "github.com/boulodrome/petanque-nights/internal/platform/id"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
	"github.com/boulodrome/petanque-nights/internal/platform/resilience"
	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type repositories struct {
	players  player.Repository
	nights   night.Repository
	rounds   round.Repository
	matches  match.Repository
	results  result.Repository
	rankings ranking.Repository
	teams    team.Repository
}

// NewHTTPServer wires storage, services and the HTTP router. The
// returned cleanup closes the database connection when the postgres
// driver is selected.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	idGen := idgen.NewRandomGenerator()

	repos, cleanup, err := buildRepositories(ctx, cfg, idGen, logger)
	if err != nil {
		return nil, nil, err
	}

	cacheTTL := cfg.LeaderboardCacheTTL
	if !cfg.LeaderboardCacheEnabled {
		// An immediately expiring store keeps the singleflight path
		// without retaining computed leaderboards.
		cacheTTL = time.Nanosecond
	}
	cacheStore := cache.NewStore(cacheTTL)

	nightSvc := usecase.NewNightService(repos.nights, repos.rounds, repos.matches)
	drawSvc := usecase.NewDrawService(repos.nights, repos.rounds, repos.matches, repos.teams, idGen, logger)
	resultSvc := usecase.NewResultService(repos.matches, repos.results, cacheStore, logger)
	attendanceSvc := usecase.NewAttendanceService(repos.nights, repos.players, repos.rounds, logger)
	standingsSvc := usecase.NewStandingsService(repos.nights, repos.players, repos.matches, repos.rankings, cacheStore, logger)
	rankingSvc := usecase.NewRankingService(repos.matches, repos.rankings, idGen, logger)

	authClient := clubauth.NewClient(
		&http.Client{Timeout: cfg.ClubAuthTimeout},
		cfg.ClubAuthBaseURL,
		cfg.ClubAuthIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.ClubAuthCircuitEnabled,
			FailureThreshold: cfg.ClubAuthCircuitFailureCount,
			OpenTimeout:      cfg.ClubAuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ClubAuthCircuitHalfOpenMaxReq,
		},
		cfg.ClubAuthPrincipalTTL,
		logger,
	)

	handler := httpapi.NewHandler(nightSvc, drawSvc, resultSvc, attendanceSvc, standingsSvc, rankingSvc, logger)
	router := httpapi.NewRouter(handler, authClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, idGen idgen.Generator, logger *logging.Logger) (repositories, func() error, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}

		if cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
			logger.Info("demo data seeded", "driver", cfg.StorageDriver)
		}

		return repositories{
			players:  postgres.NewPlayerRepository(db),
			nights:   postgres.NewNightRepository(db),
			rounds:   postgres.NewRoundRepository(db),
			matches:  postgres.NewMatchRepository(db),
			results:  postgres.NewResultRepository(db, idGen),
			rankings: postgres.NewRankingRepository(db),
			teams:    postgres.NewTeamRepository(db),
		}, db.Close, nil

	default:
		store := memory.NewStore(idGen)
		if cfg.SeedDemoData {
			store.Seed()
			logger.Info("demo data seeded", "driver", cfg.StorageDriver)
		}

		return repositories{
			players:  memory.NewPlayerRepository(store),
			nights:   memory.NewNightRepository(store),
			rounds:   memory.NewRoundRepository(store),
			matches:  memory.NewMatchRepository(store),
			results:  memory.NewResultRepository(store),
			rankings: memory.NewRankingRepository(store),
			teams:    memory.NewTeamRepository(store),
		}, func() error { return nil }, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
