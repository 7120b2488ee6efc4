package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/azybler/rpprouter/pkg/api"
	"github.com/azybler/rpprouter/pkg/euler"
)

func main() {
	cachePath := flag.String("cache", "tour.cache", "path to a binary tour cache written by rppsolve --cache")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	log.Printf("Loading cache from %s...", *cachePath)
	res, err := euler.ReadCache(*cachePath)
	if err != nil {
		log.Fatalf("Failed to load cache: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges, %d tour stops",
		res.Graph.NumNodes(), len(res.Graph.Edges), len(res.NodeSeq))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(res)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
