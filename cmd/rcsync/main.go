package main

import (
	"context"
	"log"
	"net/http"
	"os"

	// Autoloads .env file to supply environment variables
	_ "github.com/joho/godotenv/autoload"

	"github.com/lildude/rcsync/internal/cache"
	"github.com/lildude/rcsync/internal/database"
	"github.com/lildude/rcsync/internal/handlers/link"
	"github.com/lildude/rcsync/internal/logger"
	"github.com/lildude/rcsync/internal/middleware"
	"github.com/lildude/rcsync/internal/registry"
	"github.com/lildude/rcsync/internal/runnersconnect"
)

func main() {
	port := ":8080"
	if val, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok {
		port = ":" + val
	}

	logger.Setup()

	cfg := runnersconnect.DefaultConfig()
	if u := os.Getenv("RC_UPLOAD_URL"); u != "" {
		cfg.UploadURL = u
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatal("unable to connect to database: ", err)
	}
	store := database.NewStore(db)

	var che cache.Cache
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		che, err = cache.NewRedisCache(context.Background(), addr)
		if err != nil {
			log.Fatal("unable to create redis cache: ", err)
		}
	}

	reg := registry.New(registry.NewStrava(nil, che))
	h := link.NewHandler(cfg, store, store, reg)

	http.HandleFunc("/", indexHandler)
	http.HandleFunc("/auth/runnersconnect", h.AutoLink)
	http.HandleFunc("/oauth/return/{service}", h.OAuthReturn)
	http.Handle("/status", middleware.RequireLinkedUser(cfg.LandingURL, http.HandlerFunc(h.Status)))
	log.Println("Starting server on port", port)
	log.Fatal(http.ListenAndServe(port, nil)) //#nosec: G114
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("rcsync")); err != nil {
		log.Println(err)
	}
}
