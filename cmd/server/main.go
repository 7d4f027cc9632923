package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"secret-santa/internal/api"
	"secret-santa/internal/config"
	"secret-santa/internal/match"
	"secret-santa/internal/store"
	staticserver "secret-santa/static"
)

const version = "v2.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Secret Santa - gift exchange server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  DATA_DIR            Directory for persisted messages (default: ./data)
  STORE_BACKEND       Message store backend: "file" or "badger" (default: file)
  MATCHES_FILE        Optional JSON file with the giver/receiver pairs
  SERVICE_NAME        Name reported by /health (default: secret-santa-v2)
  MAX_MESSAGE_CHARS   Message length limit (default: 1000)
  ALLOWED_ORIGINS     Comma-separated CORS origins (default: *)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Secret Santa %s\n", version)
		return
	}

	// .env is optional
	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("invalid configuration")
	}
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	table := match.Default()
	if cfg.MatchesFile != "" {
		table, err = match.Load(cfg.MatchesFile)
		if err != nil {
			zerologlog.Fatal().Err(err).Str("file", cfg.MatchesFile).Msg("cannot load match table")
		}
	}
	if err := table.Validate(); err != nil {
		zerologlog.Fatal().Err(err).Msg("invalid match table")
	}

	var st store.Store
	switch cfg.StoreBackend {
	case "file":
		fs, err := store.NewFileStore(filepath.Join(cfg.DataDir, "messages.json"))
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("cannot open file store")
		}
		st = fs
	case "badger":
		bs, err := store.NewBadgerStore(filepath.Join(cfg.DataDir, "badger"))
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("cannot open badger store")
		}
		defer bs.Close()
		st = bs
	default:
		zerologlog.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown store backend")
	}

	// Gin setup with request logging (skip static asset noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api") && path != "/health" {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	api.New(table, st, cfg.ServiceName, cfg.MaxMessageChars).Mount(r)

	// Serve the embedded front-end for everything else
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)

	zerologlog.Info().
		Str("port", port).
		Str("backend", cfg.StoreBackend).
		Int("participants", table.Len()).
		Msg("listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}
