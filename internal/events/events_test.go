package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/config"
)

func TestEventPayload(t *testing.T) {
	event := Event{
		ID:       "b1",
		Kind:     KindBuild,
		Builder:  "html",
		Outcome:  "success",
		Duration: 1500 * time.Millisecond,
		Commit:   "abc123",
		Dirty:    true,
		Time:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "b1", decoded["id"])
	assert.Equal(t, "build", decoded["kind"])
	assert.Equal(t, "html", decoded["builder"])
	assert.Equal(t, "abc123", decoded["commit"])
	assert.Equal(t, true, decoded["dirty"])
	assert.NotContains(t, decoded, "error")
}

func TestEventOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(Event{ID: "s1", Kind: KindScan, Outcome: "success"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "builder")
	assert.NotContains(t, decoded, "commit")
	assert.NotContains(t, decoded, "dirty")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Kind: KindBuild}))
	assert.NoError(t, p.Close())
}

func TestForConfigWithoutURL(t *testing.T) {
	p, err := ForConfig(config.EventsSection{Subject: "docweave.builds"})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
}
