package tlog

import (
	"context"
	"log/slog"

	"github.com/claytomode/twitch-to-tiktok/pkg/util"
)

// contextHandler lifts well-known context values into log attributes.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if channel, ok := ctx.Value(util.ChannelContextKey).(string); ok {
		record.AddAttrs(slog.String("channel", channel))
	}
	if videoID, ok := ctx.Value(util.VideoIDContextKey).(string); ok {
		record.AddAttrs(slog.String("video_id", videoID))
	}

	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{h.Handler.WithGroup(name)}
}
