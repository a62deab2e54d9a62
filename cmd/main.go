package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/mail"
	"github.com/YelzhanWeb/storefront/internal/adapter/postgres"
	"github.com/YelzhanWeb/storefront/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/storefront/internal/adapter/redis"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/app/notification"
	"github.com/YelzhanWeb/storefront/internal/app/order"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: storefront, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config")
	port := flag.Int("port", 3000, "HTTP port")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lgr, err := logger.New(*mode, cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lgr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "storefront":
		err = runStorefront(ctx, cfg, mqConn, lgr, *port)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, mqConn, lgr, *prefetch)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		lgr.Sync()
		os.Exit(1)
	}
	lgr.Info("service_stopped", "Service stopped", "shutdown", nil)
}

// openStore connects the configured document store
func openStore(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.CatalogStore, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		store := redis.NewCatalogStore(cfg.Redis, "storefront")
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
		return store, func() { store.Close() }, nil

	default:
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return postgres.NewCatalogStore(db), db.Close, nil
	}
}

func runStorefront(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger, port int) error {
	store, closeStore, err := openStore(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer closeStore()

	collection := cfg.Store.Collection
	model := catalog.NewModel(store, collection, catalog.NewState(), lgr)
	if _, err := model.Load(ctx); err != nil {
		// keep serving an empty catalog; the next reconcile retries
		lgr.Error("initial_load_failed", "Starting with an empty catalog", "startup", nil, err)
	}

	board := notification.NewBoard(cfg.Notification.BannerTTL, time.Now)
	dispatcher, err := notification.NewDispatcher(rabbitmq.NewPublisher(mqConn), board, notification.Config{
		ServiceID:      cfg.Notification.ServiceID,
		TemplateID:     cfg.Notification.TemplateID,
		PickupLocation: cfg.Notification.PickupLocation,
		DateLayout:     cfg.Order.DateLayout,
		Workers:        cfg.Notification.Workers,
	}, lgr)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	orders := order.NewService(model, dispatcher, order.NewDraftState(), order.Config{
		PickupLocation: cfg.Notification.PickupLocation,
		TimeSlots:      cfg.Order.TimeSlots,
		DateLayout:     cfg.Order.DateLayout,
		Location:       cfg.TimeLocation(),
	}, lgr)
	admin := catalog.NewAdminService(store, collection, model, catalog.NewGate(cfg.Admin.Passphrase), lgr)

	handler := httpAdapter.NewRouter(httpAdapter.Handlers{
		Catalog: httpAdapter.NewCatalogHandler(catalog.NewService(model), lgr),
		Admin:   httpAdapter.NewAdminHandler(admin, lgr),
		Order:   httpAdapter.NewOrderHandler(orders, lgr),
		Notices: httpAdapter.NewNoticeHandler(board),
	}, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lgr.Info("service_started", fmt.Sprintf("Storefront started on port %d", port), "startup", map[string]interface{}{
			"port":       port,
			"store":      cfg.Store.Driver,
			"collection": collection,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Reconcile.Schedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.Reconcile.Schedule, func() {
			if err := model.Reconcile(gctx); err != nil {
				lgr.Error("scheduled_reconcile_failed", "Scheduled catalog reload failed", "cron", nil, err)
			}
		}); err != nil {
			return fmt.Errorf("invalid reconcile schedule %q: %w", cfg.Reconcile.Schedule, err)
		}
		scheduler.Start()
		g.Go(func() error {
			<-gctx.Done()
			<-scheduler.Stop().Done()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		lgr.Info("shutdown_initiated", "Shutting down Storefront", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger, prefetch int) error {
	mailer, err := mail.NewMailer(mail.NewDialer(cfg.SMTP), cfg.SMTP.From, cfg.SMTP.To, mail.DefaultTemplates)
	if err != nil {
		return err
	}

	consumer := rabbitmq.NewConsumer(mqConn, cfg.Notification.ServiceID, prefetch, lgr)
	handler := amqpAdapter.NewNotificationHandler(mailer, lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"service_id": cfg.Notification.ServiceID,
		"smtp_host":  cfg.SMTP.Host,
	})

	err = consumer.ConsumeNotifications(ctx, handler.HandleNotification)
	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	return err
}
