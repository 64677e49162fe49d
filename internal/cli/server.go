package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"level-quiz-game/internal/config"
	"level-quiz-game/internal/domain"
	"level-quiz-game/internal/game"
	"level-quiz-game/internal/infra/bankfile"
	"level-quiz-game/internal/infra/memory"
	pgloader "level-quiz-game/internal/infra/postgres"
	redisinfra "level-quiz-game/internal/infra/redis"
	transport "level-quiz-game/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the game server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz game server",
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

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

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
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBank())
	if pool != nil {
		bankID := cfg.Bank.ID
		if bankID == "" {
			bankID = "default"
		}
		loader = pgloader.NewBankLoader(pool, bankID)
	} else if cfg.Bank.Path != "" {
		loader = bankfile.NewLoader(cfg.Bank.Path)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo game.BankRepository
	if redisClient != nil {
		bankRepo = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	var store game.Store
	if redisClient != nil {
		store = redisinfra.NewGameStore(redisClient, redisTTL)
	} else {
		store = memory.NewGameStore()
	}

	gameCfg := game.DefaultConfig()
	if cfg.Game.MaxLevel > 0 {
		gameCfg.MaxLevel = cfg.Game.MaxLevel
	}
	if cfg.Game.RequiredCorrect > 0 {
		gameCfg.RequiredCorrect = cfg.Game.RequiredCorrect
	}
	if cfg.Game.AdvanceDelay != "" {
		gameCfg.AdvanceDelay = config.TTLDuration(cfg.Game.AdvanceDelay, gameCfg.AdvanceDelay)
	}

	wsHandler := transport.NewWSHandler(store, bankRepo, gameCfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz game server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBank provides a minimal question bank; configure bank.path or
// postgres.url to serve real content.
func sampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		{
			Level:         1,
			Type:          domain.MultipleChoice,
			Prompt:        "What is 2 + 2?",
			Choices:       []string{"3", "4", "5"},
			CorrectAnswer: "4",
			Hint:          "Count on your fingers.",
		},
		{
			Level:         1,
			Type:          domain.TypeIn,
			Prompt:        "Type the capital of France.",
			CorrectAnswer: "Paris",
		},
	}
}
