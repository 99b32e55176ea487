package main

import (
	"fmt"
	"log"
	"net/http"

	"hotel-assistant-backend/internal/config"
	"hotel-assistant-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	defer s.Close()
	addr := ":" + cfg.Port
	fmt.Printf("hotel assistant server listening on %s (search backend: %s)\n", addr, cfg.SearchBackend)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
