package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cafe-pos/internal/application/auth"
	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
	"github.com/jhoicas/cafe-pos/internal/infrastructure/broker"
	"github.com/jhoicas/cafe-pos/internal/infrastructure/cartstore"
	infrapdf "github.com/jhoicas/cafe-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/cafe-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/cafe-pos/internal/infrastructure/yamlcatalog"
	httpRouter "github.com/jhoicas/cafe-pos/internal/interfaces/http"
	"github.com/jhoicas/cafe-pos/pkg/config"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog", cfg.Catalog.Source).
		Str("cart_store", cfg.Cart.Store).
		Str("orders", cfg.Orders.Sink).
		Msg("iniciando caja")

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.NeedsDB() {
		pool, err = postgres.NewPool(ctx, cfg.DB, cfg.App.Name, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
	}

	// Catálogo: insumos, recetas y operadores.
	var (
		source    catalog.Source
		operators repository.OperatorRepository
	)
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		source = postgres.NewCatalogSource(pool)
		operators = postgres.NewOperatorRepository(pool)
	default:
		yc, err := yamlcatalog.Load(cfg.Catalog.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("leer catálogo YAML")
		}
		source, operators = yc, yc
	}
	snap, err := catalog.NewLoadUseCase(source, log).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	// Carrito con persistencia write-through.
	store, closeStore, err := openCartStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Cart.Store).Msg("abrir almacén del carrito")
	}
	defer closeStore()

	posCart := cart.NewCart(snap.Stock(), store, log)
	report, err := posCart.Restore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("restaurar carrito")
	}
	log.Info().
		Int("lines", report.Loaded).
		Int("dropped", report.Dropped).
		Bool("corrupt", report.Corrupt).
		Msg("carrito restaurado")

	// Destino de las órdenes.
	submitter, closeSubmitter, err := openOrderSubmitter(cfg, pool, log)
	if err != nil {
		log.Fatal().Err(err).Str("sink", cfg.Orders.Sink).Msg("abrir destino de órdenes")
	}
	defer closeSubmitter()

	// El libro de movimientos solo existe cuando la caja registra en PostgreSQL.
	var movements repository.StockMovementRepository
	if pool != nil && cfg.Orders.Sink == config.OrderSinkPostgres {
		movements = postgres.NewStockMovementRepository(pool)
	}

	receipts := infrapdf.NewReceiptGenerator(cfg.App.ShopName)
	checkoutUC := checkout.NewSubmitOrderUseCase(posCart, snap.Stock(), submitter, receipts, log)

	authUC := auth.NewAuthUseCase(operators, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Café POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Cart:      posCart,
		Catalog:   snap,
		Checkout:  checkoutUC,
		AuthUC:    authUC,
		Movements: movements,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("caja detenida")
}

// openCartStore devuelve el almacén configurado y su función de cierre.
func openCartStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (cart.Store, func(), error) {
	noop := func() {}
	switch cfg.Cart.Store {
	case config.CartStoreMemory:
		return cartstore.NewMemoryStore(cfg.Cart.Key, log), noop, nil
	case config.CartStoreFile:
		return cartstore.NewFileStore(cfg.Cart.FilePath, log), noop, nil
	case config.CartStoreSQLite:
		s, err := cartstore.OpenSQLite(cfg.Cart.SQLitePath, cfg.Cart.Key, log)
		if err != nil {
			return nil, noop, err
		}
		return s, closer(s, log, "sqlite"), nil
	case config.CartStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return cartstore.NewRedisStore(client, cfg.Cart.Key, cfg.Cart.TTL, log), closer(client, log, "redis"), nil
	}
	return nil, noop, fmt.Errorf("almacén de carrito desconocido %q", cfg.Cart.Store)
}

// openOrderSubmitter PostgreSQL (transacción local) o RabbitMQ (otro servicio registra la orden).
func openOrderSubmitter(cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (checkout.OrderSubmitter, func(), error) {
	noop := func() {}
	switch cfg.Orders.Sink {
	case config.OrderSinkAMQP:
		p, err := broker.Dial(broker.Config{
			URL:        cfg.Orders.AMQPURL,
			Exchange:   cfg.Orders.Exchange,
			RoutingKey: cfg.Orders.RoutingKey,
		}, log)
		if err != nil {
			return nil, noop, err
		}
		return p, closer(p, log, "rabbitmq"), nil
	case config.OrderSinkPostgres:
		return postgres.NewOrderSubmitter(postgres.NewTxRunner(pool), log), noop, nil
	}
	return nil, noop, fmt.Errorf("destino de órdenes desconocido %q", cfg.Orders.Sink)
}

func closer(c io.Closer, log *logger.Logger, name string) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("resource", name).Msg("cerrar recurso")
		}
	}
}
