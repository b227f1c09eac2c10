package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claytomode/twitch-to-tiktok/pkg/config"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/do"
)

var watchedExtensions = []string{".mp4", ".m4a"}

// Service observes the download output directory and logs files as they
// appear. The downloader itself does not verify its output, so this is the
// only place completed files get accounted for.
type Service struct {
	outputDir string
	watcher   *fsnotify.Watcher
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Service{
		outputDir: cfg.Download.OutputDir,
		watcher:   watcher,
	}, nil
}

// Run watches the output directory until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer s.watcher.Close()

	if err := s.watcher.Add(s.outputDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.outputDir, err)
	}

	slog.Info("Watching output directory", slog.String("dir", s.outputDir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-s.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			s.handleEvent(ctx, event)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Warn("Watcher error", slog.Any("error", err))
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isMediaFile(event.Name) {
		return
	}

	// yt-dlp writes to a temp name and renames into place when done
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return
	}

	slog.InfoContext(ctx, "Output file appeared",
		slog.String("file", event.Name),
		slog.Int64("size_bytes", info.Size()),
	)
}

func isMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, watched := range watchedExtensions {
		if ext == watched {
			return true
		}
	}
	return false
}
