package util

import "context"

type ContextKey string

func (c ContextKey) String() string {
	return "twitch_to_tiktok_" + string(c)
}

var ChannelContextKey ContextKey = "channel"
var VideoIDContextKey ContextKey = "video_id"

func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, ChannelContextKey, channel)
}

func WithVideoID(ctx context.Context, videoID string) context.Context {
	return context.WithValue(ctx, VideoIDContextKey, videoID)
}
