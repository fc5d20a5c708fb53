package main

import (
	"log"
	"os"

	"live-trivia-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("trivia-service: %v", err)
		os.Exit(1)
	}
}
