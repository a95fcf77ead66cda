package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"olivia/dialogue/internal/api"
	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/engine"
	"olivia/dialogue/internal/health"
	"olivia/dialogue/internal/llm"
	"olivia/dialogue/internal/store"
	"olivia/dialogue/internal/sttws"
	"olivia/dialogue/internal/tts"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	st := store.New()
	llmClient := llm.NewClient(llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
	})
	ttsClient := tts.NewClient(tts.Config{
		Endpoint:     cfg.TTS.Endpoint,
		Voice:        cfg.TTS.Voice,
		SpeakingRate: cfg.TTS.SpeakingRate,
	})
	eng := engine.New(cfg, st, llmClient, ttsClient)

	reg := sttws.NewRegistry()
	wss := sttws.NewServer(cfg, st, eng, reg)

	h := api.NewHandlers(cfg, st, eng)
	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(h, wss.HandleTranscriptWS))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		status := health.CheckAll(ctx, cfg, llmClient, ttsClient)
		if !status.OK {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Write([]byte(status.String()))
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutdown signal received; stopping server...")
		reg.CloseAll()
		eng.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("server error:", err)
		os.Exit(1)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
