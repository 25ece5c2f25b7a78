package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/citypooh/Artinerary/internal/artwork"
	"github.com/citypooh/Artinerary/internal/cache"
	"github.com/citypooh/Artinerary/internal/chat"
	"github.com/citypooh/Artinerary/internal/config"
	httphandler "github.com/citypooh/Artinerary/internal/http"
	"github.com/citypooh/Artinerary/internal/ingest"
	"github.com/citypooh/Artinerary/internal/llm"
	"github.com/citypooh/Artinerary/internal/location"
	"github.com/citypooh/Artinerary/internal/middleware"
	"github.com/citypooh/Artinerary/internal/moderation"
	"github.com/citypooh/Artinerary/internal/places"
)

func main() {
	var (
		port    = flag.String("port", "", "Port to run the server on (overrides PORT)")
		dataset = flag.String("dataset", "", "Path to an artwork JSON dataset (overrides DATASET_PATH)")
		pretty  = flag.Bool("pretty", false, "Human-readable log output")
	)
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dataset != "" {
		cfg.Dataset.Path = *dataset
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Artwork repository: Postgres when configured, otherwise in-memory
	// seeded from the dataset file or the built-in samples.
	var repo artwork.Repository
	var memRepo *artwork.MemoryRepository
	if cfg.Database.URL != "" {
		pg, err := artwork.NewPostgresRepository(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pg.Close()
		repo = pg
	} else {
		memRepo = artwork.NewMemoryRepository()
		loader := ingest.NewLoader(memRepo)
		if cfg.Dataset.Path != "" {
			if err := loader.LoadFromFile(cfg.Dataset.Path); err != nil {
				log.Fatal().Err(err).Msg("Failed to load dataset")
			}
		} else {
			loader.LoadSampleData()
		}
		repo = memRepo
	}

	// Redis is optional: without it queries hit the repository directly
	// and rate limiting stays in process memory.
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; running without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
			repo = artwork.NewCachedRepository(repo, redisCache)
		}
	}

	// LLM is optional too: without a key the pipeline answers open-ended
	// messages with canned fallbacks.
	var responder *llm.Responder
	if cfg.LLM.APIKey != "" {
		backend, err := llm.NewOpenAIBackend(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create LLM backend")
		}
		responder = llm.NewResponder(ctx, backend, cfg.LLM.PreferredModels, cfg.LLM.Timeout)
	} else {
		log.Warn().Msg("No LLM API key configured; using canned responses")
	}

	advisors := places.Chain{places.NewStaticAdvisor()}
	var generator chat.Generator
	if responder != nil {
		generator = responder
		advisors = append(advisors, places.NewLLMAdvisor(responder))
	}

	processor := chat.NewProcessor(
		repo,
		moderation.New(moderation.NewLogAudit()),
		location.New(repo),
		advisors,
		generator,
		chat.NewRegistry(),
	)

	var counter middleware.Counter
	if redisCache != nil {
		counter = redisCache
	}
	limiter := middleware.NewLimiter(counter, cfg.RateLimit.RequestsPerMinute, time.Minute)

	router := httphandler.NewRouter(limiter)
	router.RegisterChatRoutes(httphandler.NewChatHandler(processor))
	router.RegisterHealthRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if memRepo != nil && cfg.Dataset.Path != "" && cfg.Dataset.Watch {
		watcher := ingest.NewWatcher(ingest.NewLoader(memRepo), cfg.Dataset.Path)
		g.Go(func() error {
			err := watcher.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			log.Info().Str("signal", sig.String()).Msg("Shutting down")
		case <-gctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
	log.Info().Msg("Server stopped")
}
