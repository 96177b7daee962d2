package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orca-mesh/orcaguard/internal/mockfeed"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address for the biologist sighting agent")
	version := flag.String("version", "v1", "sighting dataset version (v1 or v2)")
	flag.Parse()

	shutdown, baseURL, err := mockfeed.StartBiologistAgent(*addr, *version)
	if err != nil {
		log.Fatalf("start biologist agent: %v", err)
	}

	log.Printf("biologist agent (%s dataset) listening on %s (POST JSON to /get_sightings)...", *version, baseURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
