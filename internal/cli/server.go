package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"live-trivia-service/internal/app"
	"live-trivia-service/internal/config"
	"live-trivia-service/internal/infra/memory"
	pgstore "live-trivia-service/internal/infra/postgres"
	redisstore "live-trivia-service/internal/infra/redis"
	"live-trivia-service/internal/infra/roomcode"
	"live-trivia-service/internal/infra/sqlite"
	"live-trivia-service/internal/platform/otel"
	transport "live-trivia-service/internal/transport/http"
)

const serviceName = "trivia-service"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	var records app.SessionRepository = memory.NewSessionRecorder()

	if cfg.Postgres.URL != "" {
		db := openBun(cfg.Postgres.URL)
		defer db.Close()
		if err := migrateDB(ctx, db); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgstore.NewQuestionLoader(pool)
		records = pgstore.NewSessionRecorder(db)
	} else if cfg.SQLite.Path != "" {
		recorder, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer recorder.Close()
		records = recorder
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionProvider
	var registry app.Registry
	var codes *roomcode.Generator
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
		store := redisstore.NewSessionStore(redisClient, redisTTL)
		registry = store
		codes = roomcode.NewGenerator(6, store)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
		registry = memory.NewSessionStore()
		codes = roomcode.NewGenerator(6, nil)
	}

	hub := transport.NewHub()
	service := app.NewTriviaService(registry, questions, hub, cfg.GameSettings(),
		app.WithSessionRepository(records),
		app.WithRoomCodes(codes),
	)
	wsHandler := transport.NewWSHandler(service, hub)
	sessionHandler := transport.NewSessionHandler(service, defaultSet(cfg), cfg.Server.PublicURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	sessionHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func defaultSet(cfg config.Config) string {
	if cfg.Questions.DefaultSet != "" {
		return cfg.Questions.DefaultSet
	}
	return sampleSetID
}
