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

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/broadcast"
	"trivia-quiz-bot/internal/config"
	"trivia-quiz-bot/internal/event"
	"trivia-quiz-bot/internal/infra/memory"
	mongostore "trivia-quiz-bot/internal/infra/mongo"
	pgstore "trivia-quiz-bot/internal/infra/postgres"
	redisledger "trivia-quiz-bot/internal/infra/redis"
	"trivia-quiz-bot/internal/trivia"
	discordtransport "trivia-quiz-bot/internal/transport/discord"
	transport "trivia-quiz-bot/internal/transport/http"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// NewRunCmd builds the CLI subcommand that runs the bot.
func NewRunCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the trivia bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), *configPath, *port)
		},
	}
}

func runBot(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord token is required (set DISCORD_TOKEN or discord.token)")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scores, cleanup, err := buildScoreStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cacheTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 15*time.Second)
	cachedScores := memory.NewLeaderboardCache(scores, cacheTTL)

	var pending app.PendingStore = memory.NewPendingStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		pendingTTL := config.TTLDuration(cfg.Redis.PendingTTL, 10*time.Minute)
		pending = redisledger.NewPendingStore(client, pendingTTL)
	}

	questions := trivia.NewClient(cfg.Trivia.APIURL)
	service := app.NewQuizService(questions, pending, cachedScores)

	feed := app.NewFeed()
	service.SetFeed(feed)

	if cfg.AMQP.URL != "" && cfg.AMQP.Exchange != "" {
		publisher, err := event.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connect amqp: %w", err)
		}
		defer publisher.Close()
		service.SetEventPublisher(publisher)
	} else {
		log.Println("AMQP not configured, quiz events will not be published")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	handler := discordtransport.NewHandler(session, service, cfg.Discord.AllowedChannels, cfg.Discord.BroadcastChannel)
	handler.Register()
	service.SetAuditNotifier(discordtransport.NewAuditNotifier(session, cfg.Discord.AuditChannel))

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer session.Close()

	if cfg.Discord.BroadcastChannel != "" {
		interval := config.TTLDuration(cfg.Trivia.AnnounceInterval, 5*time.Minute)
		scheduler := broadcast.NewScheduler(service, handler, interval)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	} else {
		log.Println("broadcast channel not configured, scheduled quizzes disabled")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	wsHandler := transport.NewWSHandler(service, feed)
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

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting leaderboard feed on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildScoreStore selects the persistence backend by config presence:
// Mongo first, then Postgres, then in-memory.
func buildScoreStore(ctx context.Context, cfg config.Config) (app.ScoreStore, func(), error) {
	if cfg.Mongo.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, mongooptions.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		store := mongostore.NewScoreStore(client.Database(cfg.Mongo.Database))
		if err := store.EnsureIndexes(connectCtx); err != nil {
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Println("using mongo score store")
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return store, cleanup, nil
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Println("using postgres score store")
		return pgstore.NewScoreStore(pool), pool.Close, nil
	}

	log.Println("no database configured, scores will not survive restarts")
	return memory.NewScoreStore(), func() {}, nil
}
