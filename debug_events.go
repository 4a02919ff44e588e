package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/docweave/docweave/internal/events"
)

// Scratch listener for inspecting build events during development:
//
//	DOCWEAVE_EVENTS_URL=nats://localhost:4222 go run debug_events.go
func main() {
	url := os.Getenv("DOCWEAVE_EVENTS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	subject := os.Getenv("DOCWEAVE_EVENTS_SUBJECT")
	if subject == "" {
		subject = "docweave.builds"
	}

	nc, err := nats.Connect(url, nats.Name("docweave-debug"))
	if err != nil {
		log.Fatalf("connect %s: %v", url, err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(subject)
	if err != nil {
		log.Fatalf("subscribe %s: %v", subject, err)
	}
	fmt.Printf("Listening on %s (%s)\n", subject, url)

	for {
		msg, err := sub.NextMsg(time.Minute)
		if err == nats.ErrTimeout {
			continue
		}
		if err != nil {
			log.Fatalf("next message: %v", err)
		}

		var event events.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			fmt.Printf("undecodable event: %v (%d bytes)\n", err, len(msg.Data))
			continue
		}
		fmt.Printf("%s %s builder=%s outcome=%s duration=%s", event.Time.Format(time.RFC3339), event.Kind, event.Builder, event.Outcome, event.Duration)
		if event.Commit != "" {
			fmt.Printf(" commit=%.8s dirty=%v", event.Commit, event.Dirty)
		}
		if event.Error != "" {
			fmt.Printf(" error=%q", event.Error)
		}
		fmt.Println()
	}
}
