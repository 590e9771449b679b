package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/api"
	"github.com/inboop/inboop_server/internal/api/handler"
	"github.com/inboop/inboop_server/internal/database"
	"github.com/inboop/inboop_server/internal/logging"
	"github.com/inboop/inboop_server/internal/pkg/cron"
	"github.com/inboop/inboop_server/internal/pkg/email"
	"github.com/inboop/inboop_server/internal/pkg/oauth"
	"github.com/inboop/inboop_server/internal/pkg/oss"
	"github.com/inboop/inboop_server/internal/pkg/pubsub"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/pkg/ws"
	"github.com/inboop/inboop_server/internal/repository"
	"github.com/inboop/inboop_server/internal/service"
)

func main() {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log, "server")

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	log.Info().Msg("database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	log.Info().Msg("redis connected")

	// exports are disabled without OSS
	var uploader service.ExportUploader
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Warn().Err(err).Msg("oss client unavailable, analytics export disabled")
		} else {
			uploader = ossClient
		}
	}

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	planRepo := repository.NewWorkspacePlanRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	accountRepo := repository.NewChannelAccountRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	planService := service.NewPlanService(workspaceRepo, planRepo, workspaceRepo)
	authService := service.NewAuthService(userRepo, cfg)
	workspaceService := service.NewWorkspaceService(workspaceRepo, userRepo, invitationRepo, planRepo,
		planService, email.NewService(&cfg.Email), &cfg.Invitation)
	channelService := service.NewChannelService(accountRepo, workspaceRepo,
		oauth.NewMetaOAuth(cfg.OAuth.Meta), oauth.NewStateStore(rdb))
	if cfg.Webhook.AppSecret == "" {
		log.Warn().Msg("webhook.app_secret is empty, incoming webhooks will be rejected")
	}
	webhookService := service.NewWebhookService(&cfg.Webhook, queue.NewQueue(rdb, cfg.Webhook.Queue))
	conversationService := service.NewConversationService(conversationRepo)
	leadService := service.NewLeadService(leadRepo, conversationRepo, planService)
	orderService := service.NewOrderService(orderRepo, leadRepo)
	analyticsService := service.NewAnalyticsService(conversationRepo, leadRepo, orderRepo, planService, uploader)

	hub := ws.NewHub()

	router := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Workspace:    handler.NewWorkspaceHandler(workspaceService, planService),
		Plan:         handler.NewPlanHandler(planService),
		Channel:      handler.NewChannelHandler(channelService),
		Webhook:      handler.NewWebhookHandler(webhookService),
		Conversation: handler.NewConversationHandler(conversationService),
		Lead:         handler.NewLeadHandler(leadService),
		Order:        handler.NewOrderHandler(orderService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		WebSocket:    handler.NewWebSocketHandler(hub, workspaceService, cfg.JWT.Secret, cfg.CORS.AllowedOrigins),
	}, workspaceService, planService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// relay worker events to websocket clients of this instance
	go func() {
		err := pubsub.NewSubscriber(rdb).Subscribe(ctx, func(evt *pubsub.InboxEvent) {
			if !hub.IsWatched(evt.WorkspaceID) {
				return
			}
			if err := hub.SendToWorkspace(evt.WorkspaceID, &ws.Message{Type: evt.Type, Data: evt}); err != nil {
				log.Warn().Err(err).Str("type", evt.Type).Msg("relay inbox event")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("inbox subscription ended")
		}
	}()

	scheduler := cron.NewService(planService, invitationRepo, cfg.Cron.PlanExpirySpec, cfg.Cron.InvitationCleanupSpec)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	scheduler.Stop(shutdownCtx)
	cancel()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
	log.Info().Msg("server stopped")
}
