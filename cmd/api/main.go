package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Werneck0live/registro-leads/internal/admin"
	"github.com/Werneck0live/registro-leads/internal/broker"
	"github.com/Werneck0live/registro-leads/internal/config"
	"github.com/Werneck0live/registro-leads/internal/db"
	"github.com/Werneck0live/registro-leads/internal/handlers"
	"github.com/Werneck0live/registro-leads/internal/intake"
	"github.com/Werneck0live/registro-leads/internal/ledger"
	"github.com/Werneck0live/registro-leads/internal/registry"
	"github.com/Werneck0live/registro-leads/internal/search"
	"github.com/Werneck0live/registro-leads/internal/session"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		slog.Error("config_invalid", "err", err)
		os.Exit(2)
	}
	slog.Info("starting", "port", cfg.Port, "ledger", cfg.LedgerPath)

	led := ledger.New(cfg.LedgerPath, slog.Default())

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: init-ledger | check-ledger | seed")
	flag.Parse()
	if *task != "" {
		tasks := admin.Tasks{Ledger: led, Log: slog.Default()}
		if err := tasks.Run(context.Background(), *task); err != nil {
			slog.Error("admin_task_failed", "task", *task, "err", err)
			os.Exit(1)
		}
		slog.Info("admin_task_done", "task", *task)
		return // encerra o processo sem subir HTTP
	}

	if cfg.ReportPassword == "" {
		slog.Warn("report_password_not_set", "hint", "REPORT_PASSWORD vazio mantém o relatório fechado")
	}
	secret := cfg.SessionSecret
	feedURL := cfg.FeedURL
	if secret == "" {
		secret = uuid.NewString()
		slog.Warn("session_secret_not_set", "hint", "sessões não sobrevivem a um restart")
		if feedURL != "" {
			// o serviço ws não teria como validar o token do feed
			slog.Warn("feed_disabled", "hint", "FEED_URL exige SESSION_SECRET compartilhado com o serviço ws")
			feedURL = ""
		}
	}

	// sessões: Mongo se configurado, senão memória
	health := &handlers.HealthHandler{LedgerPath: cfg.LedgerPath}
	var store session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.MongoURI != "" {
		client, err := db.NewMongoClient(cfg.MongoURI)
		if err != nil {
			slog.Warn("mongo_unavailable_using_memory_sessions", "err", err)
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			ms := session.NewMongoStore(client.Database(cfg.MongoDB), cfg.SessionTTL)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := ms.EnsureIndexes(ctx); err != nil {
				slog.Warn("mongo_session_index_error", "err", err)
			}
			cancel()
			store = ms
			health.Store = ms
		}
	}
	sessions := session.NewManager(store, secret, cfg.SessionTTL, cfg.SecureCookie)

	// publisher (Rabbit) é opcional
	var pub intake.Publisher
	if cfg.RabbitURI != "" {
		p, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
		if err != nil {
			slog.Warn("rabbitmq_unavailable_events_disabled", "err", err)
		} else {
			defer p.Close()
			pub = p
			health.Broker = p
		}
	}

	searchCfg := search.ProviderConfig{Results: cfg.SearchResults, Timeout: cfg.SearchTimeout}
	google := searchCfg
	google.BaseURL = cfg.GoogleSearchURL
	serp := searchCfg
	serp.BaseURL = cfg.SerpAPIURL
	resolver := search.NewResolver(slog.Default(),
		search.NewGoogleProvider(cfg.GoogleAPIKey, cfg.GoogleCX, google),
		search.NewSerpAPIProvider(cfg.SerpAPIKey, serp),
	)
	reg := registry.NewClient(cfg.ReceitaWSURL, cfg.RegistryTimeout, slog.Default())
	svc := intake.NewService(resolver, reg, led, pub, slog.Default())

	router := handlers.NewRouter(handlers.Routes{
		Intake:  handlers.NewIntakeHandler(svc, sessions),
		Report:  handlers.NewReportHandler(led, sessions, cfg.ReportPassword, feedURL, []byte(secret)),
		Health:  health,
		Metrics: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(router),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		slog.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful_shutdown_error", "err", err)
	}
	slog.Info("stopped")
}

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Loga as requisições HTTP, incluindo o método, status, n. de bytes e ttl
func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRW{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path,
			"status", srw.status, "bytes", srw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}
