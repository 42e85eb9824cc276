package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	if _, err := client.CreateTopic(ctx, "topic-1"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "gcp",
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "topic-1"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}

	evt := sampleEvent()
	if err := pub.Publish(ctx, evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := NewFanout([]Publisher{pub}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if got := msgs[0].Attributes["event_id"]; got != evt.ID {
		t.Fatalf("event_id attribute = %q", got)
	}
	var decoded Event
	if err := json.Unmarshal(msgs[0].Data, &decoded); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if decoded.Count != 2 || len(decoded.Groups) != 2 {
		t.Fatalf("unexpected event payload %+v", decoded)
	}
}
