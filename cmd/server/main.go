package main

import (
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/svmoran/duelo/internal/auth"
	"github.com/svmoran/duelo/internal/feed"
	"github.com/svmoran/duelo/internal/handlers"
	"github.com/svmoran/duelo/internal/middleware"
)

func main() {
	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	// The action feed is optional; the engine runs fine without Redis.
	if err := feed.Connect(); err != nil {
		logger.Warnf("Action feed disabled: %v", err)
	}

	srv := handlers.NewServer(logger)

	// Idle rooms are evicted after hours of inactivity.
	idleTTL := 6 * time.Hour
	if raw := os.Getenv("ROOM_IDLE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			idleTTL = d
		}
	}
	stop := make(chan struct{})
	defer close(stop)
	srv.Rooms.StartJanitor(idleTTL, 10*time.Minute, stop)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
