package vod_downloader

// Format selectors passed to yt-dlp. Twitch serves VODs over HLS, so native
// m3u8 formats are preferred with a plain best fallback.
const (
	FormatVideo = "bestvideo[protocol=m3u8_native]+bestaudio[protocol=m3u8_native]/best[protocol=m3u8_native]"
	FormatAudio = "bestaudio[protocol=m3u8_native]/bestaudio"
)

// DownloadSpec describes a single yt-dlp invocation. It is built per call and
// never persisted.
type DownloadSpec struct {
	VideoID    string
	OutputPath string

	// Format is the yt-dlp format selector expression.
	Format string
	// Overwrite replaces an existing file at OutputPath.
	Overwrite bool

	// ExtractAudio engages the audio-extraction postprocessor, converting the
	// downloaded track into AudioFormat (m4a when empty).
	ExtractAudio bool
	AudioFormat  string

	// StartTime and EndTime clip the download to a section of the VOD, in
	// H:MM:SS text form. If either is set, segment fetching is delegated to
	// ffmpeg with input-side seek flags and Sections is ignored; the two
	// clipping mechanisms are mutually exclusive.
	StartTime string
	EndTime   string

	// Sections is an optional --download-sections expression applied only
	// when no explicit timecodes are given.
	Sections string
}
