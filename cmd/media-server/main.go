package main

import (
	"context"
	"log"
	"net/http"

	"vidshare/internal/config"
	"vidshare/internal/dbmongo"
	"vidshare/internal/media"
)

func main() {
	cfg := config.LoadConfig()

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Close(context.Background())

	server := media.NewHTTPServer(dbmongo.NewObjectStore(mongoClient, cfg.PublicURL))

	addr := ":" + cfg.Server.MediaPort
	log.Printf("Media server starting on %s", addr)
	log.Printf("Serving files at %s/v1/storage/files/{fileId}/view", cfg.PublicURL)

	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
