package vod_downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/samber/do"
)

const vodURLTemplate = "https://www.twitch.tv/videos/%s"

// ErrUnavailable indicates the yt-dlp binary could not be found at call time.
var ErrUnavailable = errors.New("yt-dlp is not installed or not in PATH")

// Downloader shells out to yt-dlp (with ffmpeg as its transcoding backend)
// to fetch Twitch VODs. All HLS fetching, demuxing and audio extraction is
// delegated to the external tools; this type only assembles their arguments.
type Downloader struct {
	binPath string
}

func New(di *do.Injector) (*Downloader, error) {
	return &Downloader{binPath: "yt-dlp"}, nil
}

// Available reports whether the yt-dlp binary is executable.
func (d *Downloader) Available() bool {
	_, err := exec.LookPath(d.binPath)
	return err == nil
}

// Download runs yt-dlp for the given spec and blocks until it exits. There is
// no cancellation of an in-flight invocation beyond ctx killing the process,
// and no verification of the output file afterwards.
func (d *Downloader) Download(ctx context.Context, spec DownloadSpec) error {
	if _, err := exec.LookPath(d.binPath); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	args := buildArgs(spec)

	slog.Debug("Starting yt-dlp",
		slog.String("video_id", spec.VideoID),
		slog.String("output", spec.OutputPath),
	)

	cmd := exec.CommandContext(ctx, d.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Error("yt-dlp invocation failed",
			slog.String("video_id", spec.VideoID),
			slog.String("stderr", stderr.String()),
			slog.Any("error", err),
		)
		return fmt.Errorf("download failed: %w", err)
	}

	return nil
}

// buildArgs translates a DownloadSpec into the yt-dlp argument list.
func buildArgs(spec DownloadSpec) []string {
	args := []string{"--verbose"}

	if spec.Format != "" {
		args = append(args, "-f", spec.Format)
	}
	if spec.Overwrite {
		args = append(args, "--force-overwrites")
	}
	if spec.ExtractAudio {
		audioFormat := spec.AudioFormat
		if audioFormat == "" {
			audioFormat = "m4a"
		}
		args = append(args, "-x", "--audio-format", audioFormat)
	}

	args = append(args, "-o", spec.OutputPath)

	if spec.StartTime != "" || spec.EndTime != "" {
		// ffmpeg seeks on the input side, so only the requested section of
		// the stream is fetched. The explicit timecodes win over Sections.
		var inputArgs []string
		if spec.StartTime != "" {
			inputArgs = append(inputArgs, "-ss", spec.StartTime)
		}
		if spec.EndTime != "" {
			inputArgs = append(inputArgs, "-to", spec.EndTime)
		}

		args = append(args,
			"--downloader", "ffmpeg",
			"--downloader-args", "ffmpeg_i:"+strings.Join(inputArgs, " "),
			"--downloader-args", "ffmpeg:-loglevel info",
		)
	} else if spec.Sections != "" {
		args = append(args, "--download-sections", spec.Sections)
	}

	return append(args, fmt.Sprintf(vodURLTemplate, spec.VideoID))
}
