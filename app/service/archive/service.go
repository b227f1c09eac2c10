package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claytomode/twitch-to-tiktok/app/client/twitch"
	"github.com/claytomode/twitch-to-tiktok/pkg/config"
	"github.com/claytomode/twitch-to-tiktok/pkg/util"
	"github.com/getsentry/sentry-go"
	"github.com/samber/do"
)

var thumbnailWidth = 1280
var thumbnailHeight = 720

// Service fetches a channel's recent archived VODs and downloads them (or a
// clipped section of each) into the output directory.
type Service struct {
	cfg    *config.Config
	client *twitch.Client
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:    do.MustInvoke[*config.Config](di),
		client: do.MustInvoke[*twitch.Client](di),
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	span := sentry.StartSpan(ctx, "archive.run")
	defer span.Finish()

	ctx = util.WithChannel(ctx, s.cfg.Twitch.Channel)

	return s.client.Session(ctx, func(ctx context.Context) error {
		vods, err := s.client.ListRecentVODs(ctx, s.cfg.Twitch.Channel, s.cfg.Download.VodLimit)
		if err != nil {
			sentry.CaptureException(err)
			return fmt.Errorf("list recent VODs: %w", err)
		}

		if len(vods) == 0 {
			slog.InfoContext(ctx, "No archived VODs found")
			return nil
		}

		slog.InfoContext(ctx, "Fetched recent VODs", slog.Int("count", len(vods)))

		clip := twitch.ClipRange{
			Start: s.cfg.Download.StartTime,
			End:   s.cfg.Download.EndTime,
		}

		handles := make([]*VodHandle, 0, len(vods))
		for _, vod := range vods {
			s.logThumbnail(ctx, vod)
			handles = append(handles, newVodHandle(vod, s.client, s.cfg.Download.OutputDir, s.cfg.Download.AudioOnly, clip))
		}

		s.downloadAll(ctx, handles)

		failed := 0
		for _, handle := range handles {
			if err := handle.Join(ctx); err != nil {
				failed++
				handle.Release()
				continue
			}

			slog.InfoContext(ctx, "VOD ready",
				slog.String("video_id", handle.Video().ID),
				slog.String("file", handle.OutputFile()),
			)
		}

		slog.InfoContext(ctx, "Archive run finished",
			slog.Int("total", len(handles)),
			slog.Int("failed", failed),
		)

		if failed == len(handles) {
			return fmt.Errorf("all %d downloads failed", failed)
		}
		return nil
	})
}

// downloadAll runs the downloads on a bounded worker pool. The external tool
// blocks each worker for the duration of one download; everything else keeps
// running.
func (s *Service) downloadAll(ctx context.Context, handles []*VodHandle) {
	handleChan := make(chan *VodHandle, len(handles))

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Download.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sentry.Recover()

			for handle := range handleChan {
				handle.Prepare(ctx)
			}
		}()
	}

	for _, handle := range handles {
		handleChan <- handle
	}
	close(handleChan)

	wg.Wait()
}

func (s *Service) logThumbnail(ctx context.Context, vod twitch.Video) {
	thumbnailURL, err := s.client.GetVODThumbnailURL(ctx, vod.ID, thumbnailWidth, thumbnailHeight)
	if err != nil {
		slog.WarnContext(ctx, "Failed to resolve thumbnail",
			slog.String("video_id", vod.ID),
			slog.Any("error", err),
		)
		return
	}

	slog.DebugContext(ctx, "VOD found",
		slog.String("video_id", vod.ID),
		slog.String("title", vod.Title),
		slog.Time("created_at", vod.CreatedAt),
		slog.String("thumbnail", thumbnailURL),
	)
}
