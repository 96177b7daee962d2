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
	addr := flag.String("addr", ":8082", "listen address for the vessel AIS agent")
	flag.Parse()

	shutdown, baseURL, err := mockfeed.StartVesselAgent(*addr)
	if err != nil {
		log.Fatalf("start vessel agent: %v", err)
	}

	log.Printf("vessel agent listening on %s (POST JSON to /get_vessel_tracks)...", baseURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
