package vod_downloader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func argsAfter(args []string, flag string) []string {
	for i, arg := range args {
		if arg == flag {
			return args[i+1:]
		}
	}
	return nil
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()

	rest := argsAfter(args, flag)
	require.NotEmpty(t, rest, "flag %s missing or has no value", flag)
	return rest[0]
}

func TestBuildArgsStartOnly(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		Format:     FormatVideo,
		StartTime:  "0:1:00",
	})

	require.Equal(t, "ffmpeg", argValue(t, args, "--downloader"))
	require.Equal(t, "ffmpeg_i:-ss 0:1:00", argValue(t, args, "--downloader-args"))
	require.NotContains(t, argValue(t, args, "--downloader-args"), "-to")
	require.Contains(t, args, "ffmpeg:-loglevel info")
}

func TestBuildArgsStartAndEnd(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		Format:     FormatVideo,
		StartTime:  "0:1:00",
		EndTime:    "0:2:30",
	})

	require.Equal(t, "ffmpeg", argValue(t, args, "--downloader"))
	require.Equal(t, "ffmpeg_i:-ss 0:1:00 -to 0:2:30", argValue(t, args, "--downloader-args"))
	require.Contains(t, args, "ffmpeg:-loglevel info")
}

func TestBuildArgsEndOnly(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		EndTime:    "0:0:30",
	})

	require.Equal(t, "ffmpeg_i:-to 0:0:30", argValue(t, args, "--downloader-args"))
}

func TestBuildArgsNoClipKeepsSections(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		Format:     FormatVideo,
		Sections:   "*10:00-15:00",
	})

	require.NotContains(t, args, "--downloader")
	require.NotContains(t, args, "--downloader-args")
	require.Equal(t, "*10:00-15:00", argValue(t, args, "--download-sections"))
}

func TestBuildArgsClipDropsSections(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		StartTime:  "0:1:00",
		Sections:   "*10:00-15:00",
	})

	require.NotContains(t, args, "--download-sections")
	require.Equal(t, "ffmpeg", argValue(t, args, "--downloader"))
}

func TestBuildArgsAudioExtraction(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:      "123456",
		OutputPath:   "out.m4a",
		Format:       FormatAudio,
		ExtractAudio: true,
	})

	require.Contains(t, args, "-x")
	require.Equal(t, "m4a", argValue(t, args, "--audio-format"))
	require.Equal(t, FormatAudio, argValue(t, args, "-f"))
}

func TestBuildArgsVideoHasNoAudioExtraction(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
		Format:     FormatVideo,
		Overwrite:  true,
	})

	require.NotContains(t, args, "-x")
	require.NotContains(t, args, "--audio-format")
	require.Contains(t, args, "--force-overwrites")
	require.Contains(t, args, "--verbose")
}

func TestBuildArgsTargetURL(t *testing.T) {
	args := buildArgs(DownloadSpec{
		VideoID:    "987654321",
		OutputPath: "out.mp4",
	})

	require.Equal(t, "https://www.twitch.tv/videos/987654321", args[len(args)-1])
	require.Equal(t, "out.mp4", argValue(t, args, "-o"))
}

func TestDownloadUnavailableBinary(t *testing.T) {
	downloader := &Downloader{binPath: "yt-dlp-definitely-not-installed"}

	err := downloader.Download(context.Background(), DownloadSpec{
		VideoID:    "123456",
		OutputPath: "out.mp4",
	})

	require.ErrorIs(t, err, ErrUnavailable)
}
