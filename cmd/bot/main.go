// Command bot runs the onboarding bot: the webhook HTTP surface, the
// onboarding engine, and the audit worker. Business logic lives in internal
// packages; main only wires dependencies and owns the process lifecycle.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BrandonDavidJones1/hire-bot/internal/gateway"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/metrics"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/ports"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/service"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/store"
	"github.com/BrandonDavidJones1/hire-bot/internal/platform/config"
	"github.com/BrandonDavidJones1/hire-bot/internal/platform/httpserver"
	"github.com/BrandonDavidJones1/hire-bot/internal/platform/logger"
	"github.com/BrandonDavidJones1/hire-bot/internal/platform/redis"
	"github.com/BrandonDavidJones1/hire-bot/internal/signing"
	auditchannel "github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit/publishers/channel"
	auditkafka "github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit/publishers/kafka"
	auditmemory "github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit/store/memory"
	auditworker "github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	if cfg.BotToken == "" {
		log.Error("BOT_TOKEN is required")
		os.Exit(1)
	}
	if cfg.Gateway.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET is empty, webhook authentication is disabled")
	}
	if len(cfg.Staff.UserIDs) == 0 {
		log.Warn("no staff recipients configured, completion summaries will not be delivered")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store: Redis when configured, in-memory otherwise.
	var sessions ports.SessionStore
	if redisClient, err := redis.New(cfg.Redis); err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	} else if redisClient != nil {
		defer redisClient.Close()
		sessions = store.NewRedisSessionStore(redisClient.Client)
		log.Info("using redis session store")
	} else {
		sessions = store.NewInMemorySessionStore()
		log.Info("using in-memory session store")
	}

	// Audit: Kafka when brokers are configured, else an in-process worker.
	var (
		publisher  ports.AuditPublisher
		runWorker  func(context.Context) error
		closeAudit func()
	)
	if len(cfg.Audit.Brokers) > 0 {
		kafkaPublisher, err := auditkafka.New(cfg.Audit.Brokers, cfg.Audit.Topic, auditkafka.WithLogger(log))
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
		closeAudit = kafkaPublisher.Close
		log.Info("audit events go to kafka", "topic", cfg.Audit.Topic)
	} else {
		channelPublisher := auditchannel.New(auditchannel.WithLogger(log))
		worker := auditworker.NewWorker(auditmemory.NewInMemoryStore(), channelPublisher.Inbox())
		publisher = channelPublisher
		runWorker = worker.Run
	}

	flow := service.NewFlow(service.FlowConfig{
		StaffContactName:   cfg.Staff.ContactName,
		SupportContactName: cfg.Staff.SupportContactName,
		DevContactName:     cfg.Staff.DevContactName,
		StaffConfigured:    len(cfg.Staff.UserIDs) > 0,
		ManualURL:          cfg.Links.ManualURL,
		VideoURL:           cfg.Links.VideoURL,
		RecordingsURL:      cfg.Links.RecordingsURL,
		ServerInviteURL:    cfg.Links.ServerInviteURL,
		Blocked:            blockedLocations(cfg.Blocked),
	})

	gatewayClient := gateway.NewClient(cfg.Gateway.APIURL, cfg.BotToken, gateway.WithLogger(log))
	signer := signing.New(signing.Config{
		ClientID:     cfg.Signing.ClientID,
		ClientSecret: cfg.Signing.ClientSecret,
		APIHost:      cfg.Signing.APIHost,
		OAuthURL:     cfg.Signing.OAuthURL,
	}, signing.WithLogger(log))

	engine, err := service.New(sessions, gatewayClient, signer, flow,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(metrics.New()),
		service.WithStaffRecipients(cfg.Staff.UserIDs),
		service.WithSigningTemplate(cfg.Signing.TemplatePath),
		service.WithBotUserID(cfg.Gateway.BotUserID),
	)
	if err != nil {
		log.Error("engine construction failed", "error", err)
		os.Exit(1)
	}

	handler := gateway.NewHandler(engine, log)
	router := gateway.NewRouter(handler, cfg.Gateway.WebhookSecret, log)
	srv := httpserver.New(cfg.Gateway.HTTPAddr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting onboarding bot", "addr", cfg.Gateway.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if runWorker != nil {
		g.Go(func() error {
			if err := runWorker(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if closeAudit != nil {
		closeAudit()
	}
	if err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func blockedLocations(blocked []config.BlockedLocation) []service.BlockedLocation {
	out := make([]service.BlockedLocation, 0, len(blocked))
	for _, b := range blocked {
		out = append(out, service.BlockedLocation{Name: b.Name, Abbreviation: b.Abbreviation})
	}
	return out
}
