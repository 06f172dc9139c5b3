package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"ainews/internal/application"
	"ainews/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("AI News Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  DATABASE_URL          Postgres connection string (required)\n")
		fmt.Printf("  DEEPSEEK_API_KEY      DeepSeek API key (required)\n")
		fmt.Printf("  MINIMAX_API_KEY       Minimax TTS API key (required)\n")
		fmt.Printf("  MINIMAX_GROUP_ID      Minimax group identifier (required)\n")
		fmt.Printf("  CRON_SECRET           Shared secret for the scheduled trigger endpoint\n")
		fmt.Printf("  AUDIO_BUCKET          Bucket for synthesized audio (default: ai-news-audio)\n")
		fmt.Printf("  FETCH_SCHEDULE        Cron expression for pipeline runs (default: 0 * * * *)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("AI News Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	application.Version = Version

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	router := server.NewRouter(app)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute, // trigger runs can take up to the run budget
		IdleTimeout:  60 * time.Second,
	}

	// Schedule pipeline runs in-process.
	c := cron.New()
	_, err = c.AddFunc(app.Config.FetchSchedule, func() {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer runCancel()

		log.Printf("🕐 Scheduled news fetch starting")
		count, err := app.Pipeline.Run(runCtx)
		if err != nil {
			log.Printf("❌ Scheduled news fetch failed: %v", err)
			return
		}
		log.Printf("✅ Scheduled news fetch completed: %d items processed", count)
	})
	if err != nil {
		log.Fatalf("Failed to schedule news fetch (%q): %v", app.Config.FetchSchedule, err)
	}

	c.Start()
	defer c.Stop()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s:%s", app.Config.Host, app.Config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Println("🛑 Shutting down server...")

	cancel()
	c.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Server stopped")
}
