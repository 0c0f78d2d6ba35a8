package main

import (
	"log"

	"posecam/internal/app"
)

func main() {
	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	runErr := application.Run()
	if err := application.Close(); err != nil {
		log.Printf("⚠️  Shutdown: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Pipeline failed: %v", runErr)
	}
}
