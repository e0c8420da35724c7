package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cropdoc/internal/analyze"
	"cropdoc/internal/analyze/gemini"
	"cropdoc/internal/config"
	"cropdoc/internal/diagnosis"
	"cropdoc/internal/pipeline"
	"cropdoc/internal/store"
	"cropdoc/internal/telegram"
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
	}

	crops := store.NewCropRepo(db)
	pipe := &pipeline.Pipeline{
		Crops:         crops,
		Records:       store.NewDiagnosisRepo(db),
		Online:        gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		Offline:       analyze.NewOffline(time.Now().UnixNano()),
		VisionTimeout: time.Duration(cfg.VisionTimeoutSec) * time.Second,
	}

	bot, err := tgbotapi.NewBotAPI(cfg.MustTelegramToken())
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	defaultMode := diagnosis.ModeOffline
	if cfg.GeminiAPIKey != "" {
		defaultMode = diagnosis.ModeOnline
	}
	r := &telegram.Router{
		Bot:         bot,
		Pipe:        pipe,
		Crops:       crops,
		Lang:        cfg.DefaultLanguage,
		DefaultMode: defaultMode,
	}

	http.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	addr := "0.0.0.0:" + cfg.Port
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(addr, bot, r, webhookURL)
	} else {
		startPollingMode(addr, bot, r)
	}
}

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal(err)
	}

	// ListenForWebhook registers on the DefaultServeMux.
	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		log.Printf("webhook updates channel closed")
	}()

	log.Printf("webhook listening on %s%s", addr, path)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	go func() {
		log.Printf("health server listening on %s/healthz", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatal(err)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for {
		updates, err := bot.GetUpdates(u)
		if err != nil {
			log.Printf("getUpdates: %v", err)
			time.Sleep(retryDelayFromError(err))
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= u.Offset {
				u.Offset = upd.UpdateID + 1
			}
			r.HandleUpdate(upd)
		}
	}
}

func retryDelayFromError(err error) time.Duration {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	if strings.Contains(strings.ToLower(err.Error()), "too many requests") {
		return 3 * time.Second
	}
	return 1 * time.Second
}

func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}
