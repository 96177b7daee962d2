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
	addr := flag.String("addr", ":8083", "listen address for the summary proxy")
	flag.Parse()

	shutdown, baseURL, err := mockfeed.StartSummaryProxy(*addr)
	if err != nil {
		log.Fatalf("start summary proxy: %v", err)
	}

	log.Printf("summary proxy listening on %s (POST JSON to /generate_summary)...", baseURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
