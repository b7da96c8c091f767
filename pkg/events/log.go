package events

import (
	"context"
	"log/slog"

	"lintang/tripnav/pkg/engine/tracking"
)

// LogSink tulis event ke slog. dipakai kalau nats tidak dikonfigurasi.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

func NewLogSink(logger *slog.Logger, level slog.Level) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, level: level}
}

func (s *LogSink) Publish(ctx context.Context, sessionID string, ev tracking.Event) {
	s.logger.LogAttrs(ctx, s.level, "navigation event",
		slog.String("session_id", sessionID),
		slog.String("type", string(ev.Type())),
		slog.Any("payload", ev),
	)
}

// LogVisitedMarker cuma log destination yang visited.
type LogVisitedMarker struct {
	logger *slog.Logger
}

func NewLogVisitedMarker(logger *slog.Logger) *LogVisitedMarker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogVisitedMarker{logger: logger}
}

func (m *LogVisitedMarker) MarkVisited(ctx context.Context, destinationID string) error {
	m.logger.InfoContext(ctx, "destination visited", slog.String("destination_id", destinationID))
	return nil
}

// MultiSink fan out event ke beberapa sink sekaligus.
type MultiSink []tracking.EventSink

func (m MultiSink) Publish(ctx context.Context, sessionID string, ev tracking.Event) {
	for _, s := range m {
		s.Publish(ctx, sessionID, ev)
	}
}
