package app

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver для goose миграций

	httpapi "github.com/shestoi/GoOrderSync/internal/order/api/http"
	customerclient "github.com/shestoi/GoOrderSync/internal/order/client/customer"
	"github.com/shestoi/GoOrderSync/internal/order/config"
	eventrabbit "github.com/shestoi/GoOrderSync/internal/order/event/rabbitmq"
	"github.com/shestoi/GoOrderSync/internal/order/repository/postgres"
	"github.com/shestoi/GoOrderSync/internal/order/service"
	platformlogging "github.com/shestoi/GoOrderSync/platform/logging"
	platformrabbit "github.com/shestoi/GoOrderSync/platform/rabbitmq"
	platformshutdown "github.com/shestoi/GoOrderSync/platform/shutdown"
)

// App содержит все зависимости для запуска и корректного shutdown order сервиса
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости order сервиса
func Build(cfg config.Config) (*App, error) {
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "order",
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Building order service", zap.String("http_addr", cfg.HTTPAddr))

	// Подключаемся к PostgreSQL
	logger.Info("Connecting to PostgreSQL")
	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("PostgreSQL connection established")

	// Применяем миграции
	logger.Info("Applying database migrations", zap.String("dir", cfg.MigrationsDir))
	db, err := goose.OpenDBWithDriver("pgx", cfg.PostgresDSN)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		db.Close()
		pool.Close()
		return nil, err
	}
	db.Close()
	logger.Info("Database migrations applied successfully")

	// Соединение с брокером: владеем handle явно, dial ленивый.
	// Недоступный брокер не мешает старту: публикация будет падать в
	// failure Result, заказы продолжат создаваться
	rabbitCfg := platformrabbit.Config{}
	if err := platformrabbit.LoadEnv(&rabbitCfg); err != nil {
		pool.Close()
		return nil, err
	}
	broker := platformrabbit.NewClient(rabbitCfg.URL)

	publisher := eventrabbit.NewPublisher(logger, broker)

	customerClient := customerclient.NewClient(logger, cfg.CustomerServiceURL, cfg.CustomerClientTimeout)

	orderRepo := postgres.NewRepository(pool)

	orderService := service.NewOrderService(logger, customerClient, publisher, orderRepo)

	handler := httpapi.NewHandler(orderService, logger)

	// Функция readiness для health check
	readiness := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx) == nil
	}

	router := httpapi.NewRouter(handler, readiness, broker.Connected)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Регистрируем shutdown функции (выполняются в обратном порядке)
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))
	shutdownMgr.Add("rabbitmq_conn", platformshutdown.CloseConn(broker))
	shutdownMgr.Add("event_publisher", func(ctx context.Context) error {
		return publisher.Close()
	})
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting order service", zap.String("addr", a.httpServer.Addr))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Order service stopped")
	return nil
}
