package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/engine/tracking"
	"lintang/tripnav/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subj, data: data})
	return nil
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "tripnav.abc.camera", events.Subject("tripnav", "abc", "camera"))
	assert.Equal(t, "tripnav.a_b.visited", events.Subject("tripnav.", "a.b", "visited"))
	assert.Equal(t, "_.arrival", events.Subject("", " ", "arrival"))
	assert.Equal(t, "nav.dev.s_1.announcement", events.Subject("nav.dev", "s*1", "announcement"))
}

func TestNATSSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := events.NewNATSSink(pub, "tripnav", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	sink.Publish(context.Background(), "s1", tracking.Announcement{Text: "Turn left onto Jalan Slamet Riyadi", RemainingMeters: 120})
	sink.Publish(context.Background(), "s1", tracking.CameraIntent{Center: datastructure.NewCoordinate(-7.56, 110.82), Zoom: 17, Pitch: 60})

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, "tripnav.s1.announcement", pub.msgs[0].subject)
	assert.Equal(t, "tripnav.s1.camera", pub.msgs[1].subject)

	var got struct {
		SessionID string `json:"session_id"`
		Type      string `json:"type"`
		Payload   struct {
			Text string `json:"text"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &got))
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "announcement", got.Type)
	assert.Equal(t, "Turn left onto Jalan Slamet Riyadi", got.Payload.Text)

	t.Run("publish error is swallowed", func(t *testing.T) {
		failing := &fakePublisher{err: errors.New("nats: connection closed")}
		s := events.NewNATSSink(failing, "tripnav", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		assert.NotPanics(t, func() {
			s.Publish(context.Background(), "s1", tracking.Arrival{})
		})
	})
}

func TestVisitedMarker(t *testing.T) {
	pub := &fakePublisher{}
	m := events.NewVisitedMarker(pub, "tripnav", "s1")
	require.NoError(t, m.MarkVisited(context.Background(), "dest-9"))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "tripnav.s1.visited", pub.msgs[0].subject)
	assert.Contains(t, string(pub.msgs[0].data), `"destination_id":"dest-9"`)

	failing := &fakePublisher{err: errors.New("boom")}
	err := events.NewVisitedMarker(failing, "tripnav", "s1").MarkVisited(context.Background(), "dest-9")
	assert.Error(t, err)
}

type countingSink struct{ n int }

func (c *countingSink) Publish(context.Context, string, tracking.Event) { c.n++ }

func TestLogAndMultiSink(t *testing.T) {
	var buf bytes.Buffer
	logSink := events.NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)), slog.LevelInfo)
	counter := &countingSink{}
	multi := events.MultiSink{logSink, counter}

	multi.Publish(context.Background(), "s1", tracking.StepAdvanced{From: 0, To: 1})
	assert.Equal(t, 1, counter.n)
	assert.Contains(t, buf.String(), `"type":"step_advanced"`)
	assert.Contains(t, buf.String(), `"session_id":"s1"`)

	buf.Reset()
	marker := events.NewLogVisitedMarker(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, marker.MarkVisited(context.Background(), "dest-1"))
	assert.Contains(t, buf.String(), "dest-1")
}
