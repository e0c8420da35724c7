package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cropdoc/internal/analyze"
	"cropdoc/internal/analyze/gemini"
	"cropdoc/internal/config"
	"cropdoc/internal/handle"
	"cropdoc/internal/pipeline"
	"cropdoc/internal/store"
)

func main() {
	cfg := config.Load()

	db, embedded, err := store.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := store.Ping(context.Background(), db); err != nil {
		log.Fatalf("db.Ping: %v", err)
	}
	if embedded {
		if err := store.InitSchema(db); err != nil {
			log.Fatalf("init schema: %v", err)
		}
		if err := store.Seed(context.Background(), db); err != nil {
			log.Fatalf("seed reference data: %v", err)
		}
		log.Printf("db: embedded sqlite at %s", cfg.SQLitePath)
	} else {
		log.Printf("db: postgres connected")
	}

	crops := store.NewCropRepo(db)
	records := store.NewDiagnosisRepo(db)

	pipe := &pipeline.Pipeline{
		Crops:         crops,
		Records:       records,
		Online:        gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		Offline:       analyze.NewOffline(time.Now().UnixNano()),
		VisionTimeout: time.Duration(cfg.VisionTimeoutSec) * time.Second,
	}

	h := handle.New(pipe, crops, cfg.Dev)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnose/online", h.DiagnoseOnline)
	mux.HandleFunc("/diagnose/offline", h.DiagnoseOffline)
	mux.HandleFunc("/diagnoses", h.Diagnoses)
	mux.HandleFunc("/crops", h.ListCrops)

	addr := ":" + cfg.Port
	log.Printf("cropdoc listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
