package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/provider"
)

// monday is the clock of every test so the seeded schedule dates stay valid.
var monday = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

type environment struct {
	cache          *redis.Client
	pool           *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	redisContainer *testRedis.RedisContainer
	queries        *repository.Queries
	provider       *provider.CatalogProvider
	service        OrderService
}

func testConfig() *config.Config {
	return &config.Config{
		Messenger: config.Messenger{BaseURL: "https://m.me", PageID: "61574906107219"},
		Order:     config.Order{RateLimitWindow: time.Minute, TimeZone: "UTC"},
	}
}

func migration(name string) string {
	return filepath.Join("..", "..", "..", "migrations", name)
}

func setup(t *testing.T, c context.Context) environment {
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			migration("20250301090000_create_table_categories.up.sql"),
			migration("20250301090100_create_table_menu_items.up.sql"),
			migration("20250301090200_create_table_payment_methods.up.sql"),
			migration("20250301090300_create_table_orders.up.sql"),
			migration(filepath.Join("seed", "menu.seed.sql")),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}
	pgConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	cache := redis.NewClient(redisOpt)
	if err = cache.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	catalogProvider := provider.NewCatalogProvider(queries, cache, time.Minute, nil)
	orderService, err := NewOrderService(pool, queries, cache, catalogProvider, nil, testConfig())
	if err != nil {
		t.Fatalf("failed creating order service with error: %s", err)
	}
	orderService.now = func() time.Time { return monday }

	return environment{
		cache:          cache,
		pool:           pool,
		pgContainer:    pgContainer,
		redisContainer: redisContainer,
		queries:        queries,
		provider:       catalogProvider,
		service:        orderService,
	}
}

func teardown(t *testing.T, env environment) {
	env.cache.Close()
	env.pool.Close()
	if err := testcontainers.TerminateContainer(env.pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
	if err := testcontainers.TerminateContainer(env.redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}
