package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"freight/internal/adapters/out/carriers"
	"freight/internal/adapters/out/documents"
	"freight/internal/adapters/out/kafka"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/hubrepo"
	"freight/internal/adapters/out/postgres/refdatarepo"
	"freight/internal/adapters/out/postgres/waybillpool"
	redispool "freight/internal/adapters/out/redis"
	"freight/internal/core/application/dispatch"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/services/compliance"
	"freight/internal/core/domain/services/orchestration"
	"freight/internal/core/domain/services/rating"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// waybillPool is what both pool backends provide.
type waybillPool interface {
	ports.IdentifierPool
	ports.StrandedIdentifierFinder
	ports.IdentifierLoader
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	catalog         *refdatarepo.GormCarrierCatalog
	classifications *refdatarepo.GormClassificationRepository
	markups         *refdatarepo.GormMarkupRepository
	hubs            *hubrepo.GormHubDirectory
	pool            waybillPool
	registry        *carriers.Registry
	renderer        *documents.TextRenderer
	publisher       *kafka.Publisher
	redisClient     *redis.Client
}

// NewCompositionRoot connects the outbound adapters. The carrier catalog is read once
// here to build the carrier adapters; the rating path reloads it per request.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:             cfg,
		gormDB:          gormDB,
		uowFactory:      postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:          logger,
		catalog:         refdatarepo.NewGormCarrierCatalog(gormDB),
		classifications: refdatarepo.NewGormClassificationRepository(gormDB),
		markups:         refdatarepo.NewGormMarkupRepository(gormDB),
		hubs:            hubrepo.NewGormHubDirectory(gormDB),
		publisher: kafka.NewPublisher(cfg.KafkaBrokers, kafka.Topics{
			"shipment.booked": cfg.KafkaShipmentBookedTopic,
			"leg.on_hold":     cfg.KafkaLegOnHoldTopic,
		}, logger.With("component", "kafka_publisher")),
	}

	switch cfg.PoolBackend {
	case PoolBackendRedis:
		client, err := redispool.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.redisClient = client
		c.pool = redispool.NewWaybillPool(client)
	default:
		c.pool = waybillpool.NewGormPool(gormDB)
	}

	renderer, err := documents.NewTextRenderer()
	if err != nil {
		return nil, err
	}
	c.renderer = renderer

	if c.registry, err = c.buildRegistry(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) buildRegistry(ctx context.Context) (*carriers.Registry, error) {
	catalog, err := c.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load carrier catalog: %w", err)
	}

	registry := carriers.NewRegistry()
	for _, ep := range c.cfg.CarrierEndpoints {
		cr, ok := catalog.Get(ep.Code)
		if !ok {
			c.logger.WarnContext(ctx, "Carrier endpoint configured for an inactive or unknown carrier", "carrier", ep.Code)
			continue
		}
		registry.Register(ep.Code, carriers.NewHTTPAdapter(cr, ep.BaseURL, ep.Token, c.cfg.CarrierTimeout))
	}
	c.logger.InfoContext(ctx, "Carrier adapters registered", "adapters", registry.Len(), "catalog", catalog.Len())
	return registry, nil
}

// Close releases the broker and cache connections.
func (c *CompositionRoot) Close() error {
	err := c.publisher.Close()
	if c.redisClient != nil {
		err = errors.Join(err, c.redisClient.Close())
	}
	return err
}

func (c *CompositionRoot) StrictDangerousGoods() bool {
	return c.cfg.StrictDangerousGoods
}

func (c *CompositionRoot) CreateParser() *rating.Parser {
	return rating.NewParser(
		rating.Config{
			NorthernProvinces:    c.cfg.NorthernProvinces,
			RemotePostalPrefixes: c.cfg.RemotePostalPrefixes,
			OptionExemptCarriers: carrier.NewCandidates(c.cfg.OptionExemptCarriers...),
		},
		c.catalog,
		refdatarepo.NewGormCityAliasRepository(c.gormDB),
		refdatarepo.NewGormPackageTypeRepository(c.gormDB),
		c.classifications,
	)
}

func (c *CompositionRoot) CreateComplianceEngines() compliance.Engines {
	return compliance.Engines{
		Air:    compliance.NewEngine(compliance.AirRules(carrier.NewCandidates(c.cfg.BatteryOnlyCarriers...)), c.classifications),
		Ground: compliance.NewEngine(compliance.GroundRules(carrier.NewCandidates(c.cfg.LimitedOnlyGroundCarriers...)), c.classifications),
	}
}

func (c *CompositionRoot) CreateOrchestrator() *orchestration.Orchestrator {
	return orchestration.NewOrchestrator(orchestration.Config{
		PreassignedWaybillCarriers: carrier.NewCandidates(c.cfg.PreassignedWaybillCarriers...),
		CrossDockFee:               c.cfg.CrossDockFee,
	}, c.hubs, c.pool)
}

func (c *CompositionRoot) CreateDispatcher() *dispatch.Dispatcher {
	return dispatch.NewDispatcher(c.uowFactory, c.registry, c.markups, c.pool, c.logger)
}

func (c *CompositionRoot) CreateBookShipmentCommandHandler() commands.BookShipmentCommandHandler {
	return commands.NewBookShipmentCommandHandler(
		c.CreateParser(),
		c.CreateComplianceEngines(),
		c.CreateOrchestrator(),
		c.CreateDispatcher(),
		c.renderer,
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateLoadWaybillsCommandHandler() commands.LoadWaybillsCommandHandler {
	return commands.NewLoadWaybillsCommandHandler(c.pool, c.logger)
}

func (c *CompositionRoot) CreateRateShipmentQueryHandler() queries.RateShipmentQueryHandler {
	return queries.NewRateShipmentQueryHandler(
		c.CreateParser(),
		c.CreateComplianceEngines(),
		c.registry,
		c.markups,
		c.cfg.RatingTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLegsOnHoldQueryHandler() queries.GetLegsOnHoldQueryHandler {
	return queries.NewGetLegsOnHoldQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetLegsOnHoldQueryHandler(),
		c.publisher,
		c.pool,
		c.cfg.StrandedAfter,
		jobs.Schedules{
			OnHoldLegs:       c.cfg.OnHoldLegsSchedule,
			StrandedWaybills: c.cfg.StrandedWaybillsSchedule,
		},
		c.logger,
	)
}
