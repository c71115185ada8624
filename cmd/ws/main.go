package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Werneck0live/registro-leads/internal/config"
	"github.com/Werneck0live/registro-leads/internal/utils"
	"github.com/Werneck0live/registro-leads/internal/ws"
)

// Serviço do feed ao vivo: consome a fila de leads e repassa para as telas de relatório.
func main() {
	wscfg := config.LoadWSConfig()

	_ = config.InitLogger(wscfg.LogLevel)
	log := slog.Default().With("svc", "ws")
	if wscfg.FeedSecret == "" {
		log.Error("config_error", "err", "SESSION_SECRET is required for the lead feed")
		os.Exit(1)
	}
	feed := ws.NewFeed(log, wscfg.Backlog)
	go feed.Run()

	conn, ch, deliveries, err := ws.StartConsumer(wscfg.RabbitURI, wscfg.RabbitQueue, wscfg.ConsumerPrefetch, log)
	if err != nil {
		log.Error("rabbit_consumer_start_error", "err", err)
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
		_ = conn.Close()
	}()

	go ws.Forward(feed, deliveries, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.Handler(feed, ws.Auth{
		Secret:  []byte(wscfg.FeedSecret),
		Origins: wscfg.AllowedOrigins,
	}, log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{"status": "ok", "viewers": feed.Viewers()}
		if conn.IsClosed() {
			status = http.StatusServiceUnavailable
			body["status"] = "broker_down"
		}
		utils.WriteJSON(w, status, body)
	})

	srv := &http.Server{
		Addr:              wscfg.Addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: wscfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("ws_listen", "addr", wscfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), wscfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	feed.Stop()

	log.Info("stopped")
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
		// upgrade precisa do ResponseWriter original (Hijacker)
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") || r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

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
