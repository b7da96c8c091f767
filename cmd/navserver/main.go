package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/tripnav/docs"
	"lintang/tripnav/pkg/config"
	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/directions"
	"lintang/tripnav/pkg/engine/tracking"
	"lintang/tripnav/pkg/events"
	"lintang/tripnav/pkg/kv"
	"lintang/tripnav/pkg/server/rest"
	"lintang/tripnav/pkg/server/rest/service"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	configPath = flag.String("config", "", "path file config yaml (optional)")
	listenAddr = flag.String("listenaddr", "", "server listen address, override config")
)

//	@title			tripnav API
//	@version		1.0
//	@description	turn-by-turn navigation & route tracking service

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	logger := httplog.NewLogger("tripnav", httplog.Options{
		JSON:             cfg.Env == "production",
		LogLevel:         slog.LevelInfo,
		Concise:          true,
		MessageFieldName: "message",
		LevelFieldName:   "severity",
		TimeFieldFormat:  time.RFC3339,
		Tags: map[string]string{
			"version": "v1.0",
			"env":     cfg.Env,
		},
		QuietDownRoutes: []string{
			"/metrics",
		},
		QuietDownPeriod: 10 * time.Second,
	})
	slog.SetDefault(logger.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pebble.Open(cfg.PebbleDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	catalog := kv.NewPOICatalog(db)
	defer catalog.Close()

	provider := directions.NewOSRMClient(directions.Config{
		BaseURL:    cfg.OSRM.BaseURL,
		Timeout:    cfg.OSRM.Timeout,
		RetryCount: cfg.OSRM.RetryCount,
	})

	sinks := logSinks(logger.Logger)
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, "tripnav", logger.Logger)
		if err != nil {
			log.Fatal(err)
		}
		defer nc.Drain()
		prefix := cfg.NATS.SubjectPrefix
		sink := events.NewNATSSink(nc, prefix, logger.Logger)
		sinks = func(sessionID string) (tracking.EventSink, tracking.VisitedMarker) {
			return sink, events.NewVisitedMarker(nc, prefix, sessionID)
		}
		logger.Info("publishing navigation events to nats", slog.String("url", cfg.NATS.URL), slog.String("prefix", prefix))
	}

	profile, err := datastructure.ParseTravelProfile(cfg.DefaultProfile)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := rest.NewMetrics(reg)

	navigatorSvc := service.NewNavigationService(provider,
		service.WithCatalog(catalog),
		service.WithSinkFactory(sinks),
		service.WithMetrics(m),
		service.WithLogger(logger.Logger),
		service.WithDefaults(service.Defaults{
			Profile: profile,
			Camera: tracking.CameraSettings{
				NavigatingZoom:  cfg.Camera.NavigatingZoom,
				NavigatingPitch: cfg.Camera.NavigatingPitch,
				OverviewZoom:    cfg.Camera.OverviewZoom,
				DurationMs:      cfg.Camera.DurationMs,
			},
			CorridorRadius: cfg.CorridorRadius,
			FetchTimeout:   cfg.FetchTimeout,
		}),
	)
	defer navigatorSvc.Close()

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger, []string{"/metrics"}))
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	rest.NavigatorRouter(r, navigatorSvc)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server started", slog.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func logSinks(logger *slog.Logger) service.SinkFactory {
	sink := events.NewLogSink(logger, slog.LevelDebug)
	marker := events.NewLogVisitedMarker(logger)
	return func(string) (tracking.EventSink, tracking.VisitedMarker) {
		return sink, marker
	}
}
