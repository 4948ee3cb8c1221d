// Package main implements the entry point for the flashdeck API server,
// which serves spaced repetition decks, live quiz sessions, teacher
// invitations, and LLM-assisted card generation.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := newApplication(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
