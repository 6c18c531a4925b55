// Package app wires configuration, storage, messaging, the chat and group
// adapters, and every module into one runnable bot.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/bwmarrin/discordgo"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	ladderservice "github.com/clanworks/clanbot/app/modules/ladder/application"
	"github.com/clanworks/clanbot/app/modules/member"
	"github.com/clanworks/clanbot/app/modules/projection"
	"github.com/clanworks/clanbot/app/modules/promotion"
	"github.com/clanworks/clanbot/app/modules/submission"
	syncmodule "github.com/clanworks/clanbot/app/modules/sync"
	"github.com/clanworks/clanbot/config"
	"github.com/clanworks/clanbot/db/bundb"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/discord"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/observability"
	"github.com/clanworks/clanbot/internal/roblox"
)

// App holds the application and its dependencies.
type App struct {
	Config *config.Config
	Obs    observability.Observability

	db         *bundb.DBService
	bus        eventbus.EventBus
	router     *message.Router
	session    *discordgo.Session
	notifier   *discord.Notifier
	logHandler *discord.LogHandler
	opsServer  *observability.Server

	memberModule     *member.Module
	syncModule       *syncmodule.Module
	promotionModule  *promotion.Module
	projectionModule *projection.Module
	submissionModule *submission.Module
}

// Initialize builds every dependency and registers all handlers. Nothing
// consumes messages until Run.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	app.Config = cfg

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages
	app.session = session

	var extraHandler slog.Handler
	if cfg.Discord.LogChannelID != "" && !strings.EqualFold(cfg.Discord.LogLevel, "none") {
		app.logHandler = discord.NewLogHandler(session, cfg.Discord.LogChannelID, parseLogLevel(cfg.Discord.LogLevel))
		extraHandler = app.logHandler
	}

	app.Obs = observability.NewObservability(observability.Options{
		Environment:  cfg.Observability.Environment,
		ExtraHandler: extraHandler,
	})
	logger := app.Obs.Logger

	app.db, err = bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize database service: %w", err)
	}

	app.bus, err = eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	if err := eventbus.InitializeStreams(ctx, app.bus); err != nil {
		return fmt.Errorf("failed to initialize streams: %w", err)
	}

	robloxClient := roblox.NewClient(roblox.Options{
		GroupID: cfg.Roblox.GroupID,
		APIKey:  cfg.Roblox.APIKey,
		BaseURL: cfg.Roblox.BaseURL,
		Logger:  logger,
	})
	if err := robloxClient.VerifyCredentials(ctx); err != nil {
		return fmt.Errorf("group API credentials check failed: %w", err)
	}

	ladderService := ladderservice.NewLadderService(app.db.LadderDB, logger, app.Obs.Metrics, app.Obs.Tracer)
	if _, err := ladderService.SeedCatalog(ctx, cfg.RankDefinitions()); err != nil {
		return fmt.Errorf("failed to seed rank catalog: %w", err)
	}

	app.router, err = message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	// Registered once here so every module handler gets the same treatment.
	app.router.AddMiddleware(middleware.CorrelationID, middleware.Recoverer)

	roleManager := discord.NewRoleManager(session, cfg.Discord.GuildID, logger)
	app.notifier = discord.NewNotifier(session, cfg.Discord.AdminChannelID, app.bus, logger)

	app.memberModule, err = member.NewMemberModule(ctx, app.Obs, app.db.MemberDB, app.db.LadderDB, robloxClient, app.bus, app.router)
	if err != nil {
		return fmt.Errorf("failed to initialize member module: %w", err)
	}

	// One per-member lock instance, shared so reconciliation and promotion
	// commits serialize against each other.
	memberLocks := keymutex.New()

	app.syncModule, err = syncmodule.NewSyncModule(ctx, app.Obs, app.db.MemberDB, app.db.LadderDB, robloxClient,
		memberLocks, cfg.Sync.MemberDelay, cfg.Sync.SweepInterval, app.bus, app.router)
	if err != nil {
		return fmt.Errorf("failed to initialize sync module: %w", err)
	}

	app.promotionModule, err = promotion.NewPromotionModule(ctx, app.Obs, app.db.MemberDB, app.db.LadderDB,
		robloxClient, app.syncModule.SyncService, memberLocks, app.bus, app.router)
	if err != nil {
		return fmt.Errorf("failed to initialize promotion module: %w", err)
	}

	app.projectionModule, err = projection.NewProjectionModule(ctx, app.Obs, app.db.LadderDB, roleManager,
		projection.Config{
			RolesPerSecond: cfg.RateLimit.RolesPerSecond,
			MaxRetries:     cfg.RateLimit.MaxRetries,
			BaseDelay:      cfg.RateLimit.BaseDelay,
		}, app.bus, app.router)
	if err != nil {
		return fmt.Errorf("failed to initialize projection module: %w", err)
	}

	app.submissionModule, err = submission.NewSubmissionModule(ctx, app.Obs, app.db.SubmissionDB, app.bus, app.router)
	if err != nil {
		return fmt.Errorf("failed to initialize submission module: %w", err)
	}

	app.registerNotifierHandlers()

	if cfg.Observability.MetricsAddress != "" {
		app.opsServer = observability.NewServer(cfg.Observability.MetricsAddress, app.Obs)
	}

	return nil
}

// registerNotifierHandlers subscribes the admin-channel surface to the events
// it renders. These handlers publish nothing back to the bus; a failed post is
// logged and acked since redelivering it would just repost stale cards.
func (app *App) registerNotifierHandlers() {
	logger := app.Obs.Logger

	app.router.AddNoPublisherHandler(
		"notifier."+events.PromotionEligibilityDetectedV1,
		events.PromotionEligibilityDetectedV1,
		app.bus,
		func(msg *message.Message) error {
			var p events.PromotionEligibilityDetectedPayloadV1
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				logger.Error("Failed to decode eligibility payload", attr.Error(err))
				return nil
			}
			ctx := attr.CorrelationIDFromMessage(msg.Context(), msg)
			if err := app.notifier.PresentPendingPromotion(ctx, p); err != nil {
				logger.WarnContext(ctx, "Failed to post pending promotion",
					attr.String("discord_id", string(p.DiscordID)),
					attr.Error(err),
				)
			}
			return nil
		},
	)

	app.router.AddNoPublisherHandler(
		"notifier."+events.RankSyncCompletedV1,
		events.RankSyncCompletedV1,
		app.bus,
		func(msg *message.Message) error {
			var p events.RankSyncCompletedPayloadV1
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				logger.Error("Failed to decode sweep summary payload", attr.Error(err))
				return nil
			}
			ctx := attr.CorrelationIDFromMessage(msg.Context(), msg)
			if err := app.notifier.ReportSweepSummary(ctx, p); err != nil {
				logger.WarnContext(ctx, "Failed to post sweep summary", attr.Error(err))
			}
			return nil
		},
	)
}

// Run opens the gateway connection, starts the router, and blocks until the
// context is canceled or the router stops.
func (app *App) Run(ctx context.Context) error {
	logger := app.Obs.Logger

	if err := app.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	if app.opsServer != nil {
		go app.opsServer.Start()
	}

	routerDone := make(chan error, 1)
	go func() {
		routerDone <- app.router.Run(ctx)
	}()

	var wg sync.WaitGroup
	wg.Add(5)
	go app.memberModule.Run(ctx, &wg)
	go app.syncModule.Run(ctx, &wg)
	go app.promotionModule.Run(ctx, &wg)
	go app.projectionModule.Run(ctx, &wg)
	go app.submissionModule.Run(ctx, &wg)

	logger.InfoContext(ctx, "Clan bot running",
		attr.String("environment", app.Config.Observability.Environment),
	)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-routerDone:
		if err != nil {
			runErr = fmt.Errorf("router stopped: %w", err)
		}
	}

	wg.Wait()
	return runErr
}

// Close releases every resource in reverse initialization order. Safe to call
// after a partially failed Initialize.
func (app *App) Close() {
	logger := app.Obs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	closeModule := func(name string, closeFn func() error) {
		if err := closeFn(); err != nil {
			logger.Error("Module close failed", attr.String("module", name), attr.Error(err))
		}
	}
	if app.submissionModule != nil {
		closeModule("submission", app.submissionModule.Close)
	}
	if app.projectionModule != nil {
		closeModule("projection", app.projectionModule.Close)
	}
	if app.promotionModule != nil {
		closeModule("promotion", app.promotionModule.Close)
	}
	if app.syncModule != nil {
		closeModule("sync", app.syncModule.Close)
	}
	if app.memberModule != nil {
		closeModule("member", app.memberModule.Close)
	}

	if app.router != nil {
		if err := app.router.Close(); err != nil {
			logger.Error("Router close failed", attr.Error(err))
		}
	}
	if app.bus != nil {
		if err := app.bus.Close(); err != nil {
			logger.Error("Event bus close failed", attr.Error(err))
		}
	}
	if app.session != nil {
		if err := app.session.Close(); err != nil {
			logger.Error("Discord session close failed", attr.Error(err))
		}
	}
	if app.opsServer != nil {
		if err := app.opsServer.Shutdown(context.Background()); err != nil {
			logger.Error("Operational server shutdown failed", attr.Error(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			logger.Error("Database close failed", attr.Error(err))
		}
	}
	if app.logHandler != nil {
		app.logHandler.Close()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
