package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lintang/tripnav/pkg/engine/tracking"

	"github.com/nats-io/nats.go"
)

// Publisher subset dari *nats.Conn yang dipakai sink.
type Publisher interface {
	Publish(subj string, data []byte) error
}

type flusher interface {
	FlushWithContext(ctx context.Context) error
}

// Connect buka koneksi nats dengan reconnect handler yang di log.
func Connect(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("nats closed")
		}),
	)
}

// Envelope payload json yang dikirim ke nats.
type Envelope struct {
	SessionID string             `json:"session_id"`
	Type      tracking.EventType `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   tracking.Event     `json:"payload"`
}

/*
NATSSink publish event navigasi ke subject <prefix>.<session>.<type>.
publish error tidak di propagate ke engine, cuma di log.
*/
type NATSSink struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

func NewNATSSink(pub Publisher, prefix string, logger *slog.Logger) *NATSSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSSink{pub: pub, prefix: prefix, logger: logger, now: time.Now}
}

func (s *NATSSink) Publish(ctx context.Context, sessionID string, ev tracking.Event) {
	subject := Subject(s.prefix, sessionID, string(ev.Type()))
	b, err := json.Marshal(Envelope{
		SessionID: sessionID,
		Type:      ev.Type(),
		Timestamp: s.now().UTC(),
		Payload:   ev,
	})
	if err != nil {
		s.logger.Error("marshal event failed", slog.String("subject", subject), slog.Any("error", err))
		return
	}
	if err := s.pub.Publish(subject, b); err != nil {
		s.logger.Warn("nats publish failed", slog.String("subject", subject), slog.Any("error", err))
	}
}

type visitedMessage struct {
	SessionID     string    `json:"session_id"`
	DestinationID string    `json:"destination_id"`
	VisitedAt     time.Time `json:"visited_at"`
}

// VisitedMarker kirim destination visited ke <prefix>.<session>.visited. consumer yang persist status visited.
type VisitedMarker struct {
	pub       Publisher
	prefix    string
	sessionID string
	now       func() time.Time
}

func NewVisitedMarker(pub Publisher, prefix, sessionID string) *VisitedMarker {
	return &VisitedMarker{pub: pub, prefix: prefix, sessionID: sessionID, now: time.Now}
}

func (m *VisitedMarker) MarkVisited(ctx context.Context, destinationID string) error {
	b, err := json.Marshal(visitedMessage{
		SessionID:     m.sessionID,
		DestinationID: destinationID,
		VisitedAt:     m.now().UTC(),
	})
	if err != nil {
		return err
	}
	subject := Subject(m.prefix, m.sessionID, "visited")
	if err := m.pub.Publish(subject, b); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	// pastikan message sampai ke server sebelum dianggap sukses
	if f, ok := m.pub.(flusher); ok {
		return f.FlushWithContext(ctx)
	}
	return nil
}

// Subject gabung prefix, session id & nama event jadi subject nats yang valid.
func Subject(prefix, sessionID, name string) string {
	parts := make([]string, 0, 3)
	if p := strings.Trim(strings.TrimSpace(prefix), "."); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, subjectToken(sessionID), subjectToken(name))
	return strings.Join(parts, ".")
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// token nats tidak boleh mengandung spasi, '.', '>' atau '*'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
