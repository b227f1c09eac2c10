package archive

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claytomode/twitch-to-tiktok/app/client/twitch"
	"github.com/claytomode/twitch-to-tiktok/pkg/util"
)

// VodHandle tracks one VOD download from request to completion.
type VodHandle struct {
	video     twitch.Video
	client    *twitch.Client
	outputDir string
	audioOnly bool
	clip      twitch.ClipRange

	err       error
	readyChan chan struct{}
}

func newVodHandle(video twitch.Video, client *twitch.Client, outputDir string, audioOnly bool, clip twitch.ClipRange) *VodHandle {
	return &VodHandle{
		video:     video,
		client:    client,
		outputDir: outputDir,
		audioOnly: audioOnly,
		clip:      clip,
		readyChan: make(chan struct{}),
	}
}

// Prepare downloads the VOD, blocking until the external tool exits. The
// result is observable through Join.
func (h *VodHandle) Prepare(ctx context.Context) {
	defer close(h.readyChan)

	ctx = util.WithVideoID(ctx, h.video.ID)

	var err error
	if h.audioOnly {
		err = h.client.DownloadVODAudio(ctx, h.video.ID, h.OutputFile(), h.clip)
	} else {
		err = h.client.DownloadVOD(ctx, h.video.ID, h.OutputFile(), h.clip)
	}

	if err != nil {
		slog.ErrorContext(ctx, "VOD download error",
			slog.String("title", h.video.Title),
			slog.Any("error", err),
		)
		h.err = err
	}
}

// Join waits for the download to finish and reports its outcome.
func (h *VodHandle) Join(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.readyChan:
		return h.err
	}
}

func (h *VodHandle) OutputFile() string {
	ext := ".mp4"
	if h.audioOnly {
		ext = ".m4a"
	}
	return filepath.Join(h.outputDir, h.video.ID+ext)
}

func (h *VodHandle) Video() twitch.Video {
	return h.video
}

// Release removes whatever landed at the output path, including partial files
// left behind by a failed download.
func (h *VodHandle) Release() {
	_ = os.Remove(h.OutputFile())
}
