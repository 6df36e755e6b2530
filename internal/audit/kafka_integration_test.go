//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"whisperwall/pkg/testutil/containers"
)

func TestKafkaSink(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	sink, err := NewKafkaSink(ctx, []string{rp.Broker})
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	sent := Event{
		ID:        "evt-1",
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Action:    string(EventLoginSucceeded),
		UserID:    7,
		Subject:   "alice@example.com",
		Decision:  "local",
		RequestID: "req-1",
	}
	require.NoError(t, sink.Append(ctx, sent))

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "7", string(records[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, sent.Action, got.Action)
	assert.Equal(t, sent.UserID, got.UserID)
	assert.Equal(t, sent.Subject, got.Subject)
}
