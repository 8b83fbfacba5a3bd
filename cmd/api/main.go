package main

import (
	"log"
	"os"

	"github.com/Devam759/StitchUp-Firebase/internal/config"
	"github.com/Devam759/StitchUp-Firebase/internal/db"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/server"
	"github.com/joho/godotenv"
)

// set via -ldflags at build time
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	srv := server.New(nil, gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("config load error: %v", err)
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(&model.User{}, &model.Enquiry{}, &model.Message{}, &model.Order{}, &model.CartItem{}); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
