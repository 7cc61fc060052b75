package main

import (
	"log"
	"os"
)

func main() {
	defer cleanup()

	if len(os.Args) > 3 {
		log.Fatalf("too many arguments: %d", len(os.Args)) // want "avoid using log.Fatalf in main.main"
	}

	go func() {
		os.Exit(2)
	}()

	os.Exit(1) // want "avoid using os.Exit in main.main"
}

func cleanup() {}

func fail() {
	os.Exit(3)
}
