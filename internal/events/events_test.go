package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/pkg/logging"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestMessage_KeyedByUser(t *testing.T) {
	e := New("order_placed", 42, map[string]any{"orderID": 7})
	msg, err := Message(e)
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order_placed", decoded["type"])
	assert.EqualValues(t, 42, decoded["userID"])
	assert.NotEmpty(t, decoded["id"])
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "client_events"}

	require.NoError(t, p.Publish(context.Background(), New("session_login", 1, nil)))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "1", string(w.msgs[0].Key))

	w.err = errors.New("broker down")
	err := p.Publish(context.Background(), New("session_logout", 1, nil))
	assert.ErrorContains(t, err, "client_events")
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t")
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, " ")
	assert.Error(t, err)
}

func TestFromConfig_NopWithoutBrokers(t *testing.T) {
	p, err := FromConfig(nil, "client_events")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
}

func TestEmit_SwallowsErrors(t *testing.T) {
	ctx := logging.IntoContext(context.Background(), logging.Discard())
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("down")}, topic: "t"}
	assert.NotPanics(t, func() {
		Emit(ctx, p, New("cart_cleared", 1, nil))
		Emit(ctx, nil, New("cart_cleared", 1, nil))
	})

	r := &Recorder{}
	Emit(ctx, r, New("cart_cleared", 1, nil))
	assert.Equal(t, []string{"cart_cleared"}, r.Types())
}
