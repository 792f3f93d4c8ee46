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

	"github.com/gyaneshwarpardhi/minecraftutils/internal/api"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/config"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/lint"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides http.addr)")
	cfgPath := flag.String("config", "configs/settings.yaml", "Path to settings YAML")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load settings ─────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load settings", "err", err)
		os.Exit(1)
	}
	cfg := loader.Settings()
	if lvl, err := config.ParseLevel(cfg.Log.Level); err == nil {
		level.Set(lvl)
	}
	listen := cfg.HTTP.Addr
	if *addr != "" {
		listen = *addr
	}

	// ── Form signing secret ───────────────────────────────────────────────────
	secret, err := config.LoadOrCreateSecret(cfg.Secret.Path)
	if err != nil {
		slog.Error("failed to read secret", "path", cfg.Secret.Path, "err", err)
		os.Exit(1)
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Settings) {
		if lvl, err := config.ParseLevel(newCfg.Log.Level); err == nil {
			level.Set(lvl)
		}
		slog.Info("settings hot-reloaded",
			"max_upload_bytes", newCfg.HTTP.MaxUploadBytes,
			"bungeecord_api_version", newCfg.Scaffold.BungeeCordAPIVersion,
		)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("settings watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(loader.Settings, lint.DefaultRegistry(), secret)
	srv := &http.Server{
		Addr:         listen,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listen, "settings", loader.Path())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}
