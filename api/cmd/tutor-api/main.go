package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"math-tutor/api/internal/ai"
	"math-tutor/api/internal/ai/gemini"
	"math-tutor/api/internal/ai/gpt"
	"math-tutor/api/internal/config"
	"math-tutor/api/internal/handle"
	"math-tutor/api/internal/httpserver"
	"math-tutor/api/internal/store"
)

func main() {
	cfg := config.Load()
	config.MustHave(cfg.GeminiAPIKey, "GEMINI_API_KEY")

	// Prefer platform PORT env var; fallback to cfg.Port
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	// --- Postgres (optional; caches are skipped without it) ---
	var (
		solveRepo *store.SolveRepo
		seedRepo  *store.SeedRepo
	)
	if dsn := resolveDSN(cfg.DatabaseURL); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("sql.Open: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db.Ping: %v", err)
		}
		log.Printf("db connected: %s", safeDSNSummary(dsn))

		solveRepo = store.NewSolveRepo(db)
		seedRepo = store.NewSeedRepo(db)
		go purgeLoop(solveRepo)
	} else {
		log.Print("no database configured, caching disabled")
	}

	// --- Engines ---
	engines := &ai.Engines{
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}

	h := handle.New(engines, solveRepo, seedRepo, cfg.APIKey)

	addr := ":" + cfg.Port
	log.Printf("tutor-api listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, httpserver.New(h)))
}

// purgeLoop trims solve cache rows past the 90 day retention, once a day.
func purgeLoop(repo *store.SolveRepo) {
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		n, err := repo.PurgeOlderThan(ctx, 90*24*time.Hour)
		cancel()
		if err != nil {
			log.Printf("solve cache purge: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("solve cache purge: dropped %d rows", n)
		}
	}
}

// resolveDSN prefers DATABASE_URL and otherwise assembles a DSN from the
// POSTGRES_* parts.
func resolveDSN(databaseURL string) string {
	if s := strings.TrimSpace(databaseURL); s != "" {
		return s
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	name := os.Getenv("POSTGRES_DB")

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   "/" + name,
	}
	if user != "" {
		u.User = url.UserPassword(user, pass)
	}
	q := u.Query()
	if os.Getenv("POSTGRES_SSLMODE") != "" {
		q.Set("sslmode", os.Getenv("POSTGRES_SSLMODE"))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// safeDSNSummary renders host/db without credentials for the startup log.
func safeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "(unparseable dsn)"
	}
	return u.Host + u.Path
}
