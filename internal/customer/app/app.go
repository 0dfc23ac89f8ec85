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

	httpapi "github.com/shestoi/GoOrderSync/internal/customer/api/http"
	"github.com/shestoi/GoOrderSync/internal/customer/config"
	eventrabbit "github.com/shestoi/GoOrderSync/internal/customer/event/rabbitmq"
	"github.com/shestoi/GoOrderSync/internal/customer/repository"
	"github.com/shestoi/GoOrderSync/internal/customer/repository/postgres"
	"github.com/shestoi/GoOrderSync/internal/customer/service"
	platformlogging "github.com/shestoi/GoOrderSync/platform/logging"
	platformrabbit "github.com/shestoi/GoOrderSync/platform/rabbitmq"
	platformshutdown "github.com/shestoi/GoOrderSync/platform/shutdown"
)

// seedCustomers — стартовый набор покупателей (идемпотентный, ключ — email)
var seedCustomers = []repository.Customer{
	{Name: "María García", Email: "maria@example.com", Address: "Calle Principal 123, CDMX"},
	{Name: "Carlos López", Email: "carlos@example.com", Address: "Av. Reforma 456, Guadalajara"},
	{Name: "Ana Martínez", Email: "ana@example.com", Address: "Blvd. Constitución 789, Monterrey"},
	{Name: "Juan Hernández", Email: "juan@example.com", Address: "Calle 5 de Mayo 321, Puebla"},
	{Name: "Laura Sánchez", Email: "laura@example.com", Address: "Av. Juárez 654, Querétaro"},
}

// App содержит все зависимости для запуска и корректного shutdown customer сервиса
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	consumer    *eventrabbit.Consumer
	consumerCtx context.Context
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости customer сервиса
func Build(cfg config.Config) (*App, error) {
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "customer",
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Building customer service", zap.String("http_addr", cfg.HTTPAddr))

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

	customerRepo := postgres.NewRepository(pool)

	// Сидируем стартовых покупателей (повторный запуск ничего не меняет)
	for _, customer := range seedCustomers {
		if err := customerRepo.EnsureCustomer(context.Background(), customer); err != nil {
			pool.Close()
			return nil, err
		}
	}
	logger.Info("Seed customers ensured", zap.Int("count", len(seedCustomers)))

	// Соединение с брокером: недоступный брокер не мешает старту,
	// consumer переподключается в фоне
	rabbitCfg := platformrabbit.Config{}
	if err := platformrabbit.LoadEnv(&rabbitCfg); err != nil {
		pool.Close()
		return nil, err
	}
	broker := platformrabbit.NewClient(rabbitCfg.URL)

	customerService := service.NewCustomerService(logger, customerRepo)

	consumer := eventrabbit.NewConsumer(logger, broker, customerService, cfg.ConsumerPrefetch, cfg.ConsumerWorkers)

	handler := httpapi.NewHandler(customerService, logger)

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

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())

	// Регистрируем shutdown функции (выполняются в обратном порядке)
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))
	shutdownMgr.Add("rabbitmq_conn", platformshutdown.CloseConn(broker))
	shutdownMgr.Add("event_consumer", platformshutdown.CancelContext(cancelConsumer))
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		consumer:    consumer,
		consumerCtx: consumerCtx,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting customer service", zap.String("addr", a.httpServer.Addr))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.consumer.Start(a.consumerCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Customer service stopped")
	return nil
}
