package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/raffa/internal/config"
	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	orderRequest "github.com/Alturino/raffa/order/pkg/request"
	orderResponse "github.com/Alturino/raffa/order/pkg/response"
)

var today = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

const (
	fishballID = "5f0c6d1e-0000-4000-8000-000000000001"
	coffeeID   = "5f0c6d1e-0000-4000-8000-000000000003"
	soldOutID  = "5f0c6d1e-0000-4000-8000-000000000004"
	largeID    = "1b000000-0000-4000-8000-000000000001"
	sauceID    = "2b000000-0000-4000-8000-000000000001"
)

func stock(n int) *int {
	return &n
}

func menuItems() []catalog.Item {
	return []catalog.Item{
		{
			ID:        fishballID,
			Name:      "Fishball",
			BasePrice: decimal.NewFromInt(25),
			Inventory: catalog.Inventory{Tracked: true, StockQuantity: stock(3), LowStockThreshold: 1},
			AddOns: []catalog.AddOn{
				{ID: sauceID, Name: "Sweet Sauce", Price: decimal.NewFromInt(5)},
			},
			Available: true,
		},
		{
			ID:        coffeeID,
			Name:      "Iced Coffee",
			BasePrice: decimal.NewFromInt(90),
			Variations: []catalog.Variation{
				{ID: largeID, Name: "Large", Price: decimal.NewFromInt(120)},
			},
			Available: true,
		},
		{
			ID:        soldOutID,
			Name:      "Kikiam",
			BasePrice: decimal.NewFromInt(40),
			Inventory: catalog.Inventory{Tracked: true, StockQuantity: stock(0)},
			Available: false,
		},
	}
}

// orderStub records the checkout requests it receives and answers with either
// a placed order or the configured rejection.
type orderStub struct {
	mu       sync.Mutex
	requests []orderRequest.Checkout
	reject   int
}

func (s *orderStub) rejectWith(statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = statusCode
}

func (s *orderStub) received() []orderRequest.Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orderRequest.Checkout{}, s.requests...)
}

func (s *orderStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := r.Context()
	body := orderRequest.Checkout{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, body)
	reject := s.reject
	s.mu.Unlock()

	if reject != 0 {
		inHttp.WriteFailed(c, w, reject, errRejected)
		return
	}
	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully placed order", map[string]interface{}{
		"order": orderResponse.Order{
			ID:           uuid.New(),
			CustomerName: body.RecipientName,
			ServiceType:  body.ServiceType,
			Total:        body.Cart.TotalPrice,
			Status:       "pending",
		},
		"message":       "order message",
		"messengerLink": "https://m.me/61574906107219?text=order%20message",
	})
}

type rejection string

func (r rejection) Error() string {
	return string(r)
}

const errRejected = rejection("rate limit exceeded, please wait 1 minute before placing another order")

type environment struct {
	cache          *redis.Client
	redisContainer *testRedis.RedisContainer
	menuServer     *httptest.Server
	orderServer    *httptest.Server
	orders         *orderStub
	service        CartService
}

func setup(t *testing.T, c context.Context) environment {
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

	menuMux := http.NewServeMux()
	menuMux.HandleFunc("GET /menu/catalog", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteSuccess(r.Context(), w, http.StatusOK, "successfully found catalog", map[string]interface{}{
			"items": menuItems(),
		})
	})
	menuServer := httptest.NewServer(menuMux)

	orders := &orderStub{}
	orderMux := http.NewServeMux()
	orderMux.Handle("POST /orders/checkout", orders)
	orderServer := httptest.NewServer(orderMux)

	cfg := &config.Config{
		Cart: config.Cart{TTL: time.Hour},
		Upstream: config.Upstream{
			MenuURL:  menuServer.URL + "/menu",
			OrderURL: orderServer.URL + "/orders",
		},
	}
	cartService := NewCartService(cache, nil, cfg)
	cartService.now = func() time.Time { return today }

	return environment{
		cache:          cache,
		redisContainer: redisContainer,
		menuServer:     menuServer,
		orderServer:    orderServer,
		orders:         orders,
		service:        cartService,
	}
}

func teardown(t *testing.T, env environment) {
	env.menuServer.Close()
	env.orderServer.Close()
	env.cache.Close()
	if err := testcontainers.TerminateContainer(env.redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}
