package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherWritesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &KafkaPublisher{writer: w, eventType: TypeLeadCreated, now: func() time.Time { return at }}

	require.NoError(t, p.Publish(context.Background(), "lead-1", map[string]string{"name": "Dana"}))
	require.Len(t, w.msgs, 1)
	require.Equal(t, "lead-1", string(w.msgs[0].Key))

	var env struct {
		Type string            `json:"type"`
		At   time.Time         `json:"at"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	require.Equal(t, TypeLeadCreated, env.Type)
	require.True(t, env.At.Equal(at))
	require.Equal(t, "Dana", env.Data["name"])

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}, eventType: TypeLeadCreated, now: time.Now}
	err := p.Publish(context.Background(), "k", struct{}{})
	require.ErrorIs(t, err, boom)
}

func TestNewLeadPublisher(t *testing.T) {
	p := NewLeadPublisher(nil, "site.leads")
	require.IsType(t, Noop{}, p)
	require.NoError(t, p.Publish(context.Background(), "k", nil))

	kp := NewLeadPublisher([]string{"127.0.0.1:9092"}, "site.leads")
	require.IsType(t, &KafkaPublisher{}, kp)
	require.NoError(t, kp.Close())
}
