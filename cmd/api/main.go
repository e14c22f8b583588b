package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"dailydose/internal/adapters/auth/supabase"
	"dailydose/internal/adapters/notify/localcron"
	"dailydose/internal/domain/medications"
	"dailydose/internal/platform/logger"
	"dailydose/internal/ports/auth"
	"dailydose/internal/router"
)

// @title DailyDose API
// @version 1.0
// @description API de medicamentos y seguimiento de dosis.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier de Supabase solo si hay credenciales; si no, modo dev
	// (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	supabaseURL := strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	supabaseKey := strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY"))
	if supabaseURL != "" && supabaseKey != "" {
		client, err := supabase.NewClient(supabase.Config{
			BaseURL: supabaseURL,
			AnonKey: supabaseKey,
		})
		if err != nil {
			log.Error("supabase client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = supabase.NewVerifier(client)
		log.Info("supabase auth enabled", nil)
	} else {
		log.Warn("supabase auth not configured, running in dev mode", nil)
	}

	var reminders medications.ReminderScheduler
	if strings.EqualFold(strings.TrimSpace(os.Getenv("REMINDERS_ENABLED")), "true") {
		sched := localcron.New(localcron.LogSender{Log: log}, log)
		defer sched.Stop()
		reminders = sched
		log.Info("local reminder scheduler enabled", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Log:          log,
		Reminders:    reminders,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
