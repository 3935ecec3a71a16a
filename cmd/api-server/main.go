package main

import (
	"context"
	"log"
	"net/http"

	"vidshare/internal/wire"
)

func main() {
	app, err := wire.InitializeApplication()
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer app.Mongo.Close(context.Background())

	addr := ":" + app.Config.Server.APIPort
	log.Printf("API server starting on %s", addr)

	if err := http.ListenAndServe(addr, app.API.Router()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
