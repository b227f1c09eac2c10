package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/claytomode/twitch-to-tiktok/app/client/twitch"
	"github.com/claytomode/twitch-to-tiktok/app/client/vod_downloader"
	"github.com/claytomode/twitch-to-tiktok/app/service/archive"
	"github.com/claytomode/twitch-to-tiktok/app/service/watcher"
	"github.com/claytomode/twitch-to-tiktok/pkg/config"
	sentry2 "github.com/claytomode/twitch-to-tiktok/pkg/sentry"
	"github.com/claytomode/twitch-to-tiktok/pkg/tlog"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	di := do.New()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = tlog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	if err = sentry2.Init(cfg); err != nil {
		slog.Error("Sentry initialization failed", slog.Any("error", err))
	}
	defer sentry.Flush(time.Second)
	defer sentry.RecoverWithContext(appCtx)

	_ = os.MkdirAll(cfg.Download.OutputDir, os.ModePerm)

	do.Provide(di, vod_downloader.New)
	do.Provide(di, twitch.NewClient)
	do.Provide(di, archive.New)
	do.Provide(di, watcher.New)

	if !do.MustInvoke[*vod_downloader.Downloader](di).Available() {
		log.Fatalf("yt-dlp not found in PATH, downloads will not work")
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*watcher.Service](di).Run(appCtx); err != nil && appCtx.Err() == nil {
			slog.Error("Watcher stopped", slog.Any("error", err))
		}
	}()

	if err = do.MustInvoke[*archive.Service](di).Run(appCtx); err != nil {
		log.Fatalf("archive run failed: %v", err)
	}

	log.Info("Waiting for services to finish...")
	_ = di.Shutdown()
}
