package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings. Environment variables are the base;
// command-line flags override them.
type Config struct {
	Addr      string `env:"NOVA_ADDR" envDefault:":8080"`
	ClientDir string `env:"NOVA_CLIENT_DIR" envDefault:"./client"`
	DBPath    string `env:"NOVA_DB_PATH" envDefault:"nova.db"`
	BaseURL   string `env:"NOVA_BASE_URL" envDefault:"http://localhost:8080"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	clientDir := flag.String("client", cfg.ClientDir, "client files directory")
	dbPath := flag.String("db", cfg.DBPath, "sqlite database path (empty disables accounts)")
	baseURL := flag.String("base-url", cfg.BaseURL, "public base URL for invite links")
	flag.Parse()

	cfg.Addr = *addr
	cfg.ClientDir = *clientDir
	cfg.DBPath = *dbPath
	cfg.BaseURL = *baseURL
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		log.Printf("database open at %s", cfg.DBPath)
	} else {
		log.Println("running without database, accounts disabled")
	}

	directory := NewRoomDirectory()
	gateway := NewGateway(directory)
	hub := NewHub(gateway, db)
	driver := NewDriver(directory, gateway)

	if db != nil {
		driver.OnGameOver = func(room *Room, result GameResult) {
			waves := room.WaveCount()
			for _, p := range room.Participants() {
				if err := db.ApplyMatchResult(p.PilotID, p.Kills, waves, result.IsVictory); err != nil {
					log.Printf("record match result for pilot %d: %v", p.PilotID, err)
				}
			}
		}
	}

	go hub.Run()
	go driver.Run()

	mux := SetupRoutes(hub, cfg.ClientDir, cfg.BaseURL)
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	driver.Stop()
	server.Close()
	if db != nil {
		db.Close()
	}
}
