package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	rules "github.com/jhoicas/residencia-api/internal/domain/referral"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
	"github.com/jhoicas/residencia-api/internal/infrastructure/events"
	"github.com/jhoicas/residencia-api/internal/infrastructure/memory"
	"github.com/jhoicas/residencia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/residencia-api/internal/interfaces/http"
	"github.com/jhoicas/residencia-api/pkg/config"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

// stores agrupa los adaptadores de persistencia según STORE_DRIVER.
type stores struct {
	products     repository.ProductRepository
	movements    repository.InventoryMovementRepository
	supplyOrders repository.SupplyOrderRepository
	referrals    referral.Repos
	invTx        inventory.TxRunner
	refTx        referral.TxRunner
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config, seedDemo bool, log *logger.Logger) (*stores, error) {
	if cfg.App.StoreDriver == "memory" {
		store := memory.New()
		if seedDemo {
			store.AddResident(entity.Resident{ID: "demo-residente", FullName: "Residente de prueba", FileNumber: "EXP-0001", Active: true})
			store.AddCollaborator(entity.Collaborator{ID: "demo-colaborador", FullName: "Colaborador de prueba", Kind: "enfermero", Active: true})
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al detener el proceso")
		return &stores{
			products:     store.Products(),
			movements:    store.Movements(),
			supplyOrders: store.SupplyOrders(),
			referrals:    store.ReferralRepos(),
			invTx:        store,
			refTx:        store,
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	txRunner := postgres.NewTxRunner(pool)
	return &stores{
		products:     postgres.NewProductRepository(pool),
		movements:    postgres.NewInventoryMovementRepository(pool),
		supplyOrders: postgres.NewSupplyOrderRepository(pool),
		referrals:    postgres.ReferralRepos(pool),
		invTx:        txRunner,
		refTx:        txRunner,
		close:        pool.Close,
	}, nil
}

// newPublisher usa RabbitMQ si AMQP_URL está definido; si no, los eventos solo se registran.
func newPublisher(cfg *config.Config, log *logger.Logger) (ports.EventPublisher, func()) {
	if cfg.AMQP.URL == "" {
		return events.NewLogPublisher(log), func() {}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.App.Name)
	if err != nil {
		log.Error().Err(err).Msg("RabbitMQ no disponible, los eventos solo se registran en el log")
		return events.NewLogPublisher(log), func() {}
	}
	log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("publicando eventos en RabbitMQ")
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar conexión AMQP")
		}
	}
}

func runServer(cfg *config.Config, seedDemo bool) error {
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, seedDemo, log)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer st.close()

	publisher, closePublisher := newPublisher(cfg, log.Component("eventos"))
	defer closePublisher()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        inventory.NewProductUseCase(st.products, st.invTx),
		RegisterMovement: inventory.NewRegisterMovementUseCase(st.invTx, st.movements, publisher, log.Component("inventario")),
		SupplyOrderUC:    inventory.NewSupplyOrderUseCase(st.supplyOrders, st.products),
		Replenishment:    inventory.NewReplenishmentUseCase(st.products, st.supplyOrders),
		ReferralUC: referral.NewUseCase(st.refTx, st.referrals, publisher, log.Component("remisiones"), referral.Options{
			Policy:            rules.PolicyFor(cfg.Referral.StrictTransitions),
			MaxNumberAttempts: cfg.Referral.MaxNumberAttempts,
		}),
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
	return nil
}
