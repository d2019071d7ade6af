package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farxc/store_manager/internal/logger"
	"github.com/farxc/store_manager/internal/metrics"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const version = "0.1.0"

type application struct {
	config  config
	store   store.Storage
	views   *view.Renderer
	logger  *logger.Logger
	limiter *clientLimiter
}

type config struct {
	addr      string
	logLevel  string
	db        dbConfig
	rateLimit rateLimitConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type rateLimitConfig struct {
	rps   int
	burst int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)
	r.Use(instrument)
	if app.config.rateLimit.rps > 0 {
		app.limiter = newClientLimiter(app.config.rateLimit.rps, app.config.rateLimit.burst)
		r.Use(app.limiter.handler)
	}

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.handleMainPage)
	r.Get("/ping", app.handlePing)
	r.Get("/v1/health", app.healthCheckHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/main", func(r chi.Router) {
		r.Get("/", app.handleMainPage)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.handleProductIndex)
			r.Get("/create", app.handleProductCreateForm)
			r.Post("/create", app.handleProductCreate)
			r.Get("/{sku}/update", app.handleProductUpdateForm)
			r.Post("/{sku}/update", app.handleProductUpdate)
			r.Post("/{sku}/delete", app.handleProductDelete)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", app.handleSupplierIndex)
			r.Get("/create", app.handleSupplierCreateForm)
			r.Post("/create", app.handleSupplierCreate)
			r.Post("/{tin}/delete", app.handleSupplierDelete)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", app.handleCustomerIndex)
			r.Get("/create/{max_cust_no}", app.handleCustomerCreateForm)
			r.Post("/create/{max_cust_no}", app.handleCustomerCreate)
			r.Post("/{cust_no}/delete", app.handleCustomerDelete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", app.handleOrderIndex)
			r.Get("/create/{cust_no}/{max_order_no}", app.handleOrderCreateForm)
			r.Post("/create/{cust_no}/{max_order_no}", app.handleOrderCreate)
		})

		r.Route("/login", func(r chi.Router) {
			r.Get("/{max_order_no}", app.handleLoginForm)
			r.Post("/{max_order_no}", app.handleLogin)
			r.Get("/{cust_no}/{max_order_no}", app.handleCustomerOrders)
			r.Route("/{cust_no}/{order_no}/info", func(r chi.Router) {
				r.Get("/pay/{max_order_no}", app.handlePayOrder)
				r.Post("/pay/{max_order_no}", app.handlePayOrder)
				r.Post("/delete/{max_order_no}/{flag}", app.handleOrderDelete)
				r.Get("/{max_order_no}", app.handleOrderInfo)
				r.Post("/{max_order_no}", app.handleOrderInfo)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	const component = "Server"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	if app.limiter != nil {
		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		app.limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)
	}

	shutdown := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info(component, "Shutting down: signal=%s", s)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(component, "Server started on %s", app.config.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}
	app.logger.Info(component, "Server stopped")
	return nil
}
