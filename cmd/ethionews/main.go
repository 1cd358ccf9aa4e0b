package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alphabot-ai/ethionews/internal/auth"
	"github.com/alphabot-ai/ethionews/internal/client"
	"github.com/alphabot-ai/ethionews/internal/config"
	"github.com/alphabot-ai/ethionews/internal/ethiocal"
	httpapp "github.com/alphabot-ai/ethionews/internal/http"
	"github.com/alphabot-ai/ethionews/internal/rate"
	"github.com/alphabot-ai/ethionews/internal/store/sqlite"
	"github.com/alphabot-ai/ethionews/internal/upload"
)

const defaultBaseURL = "http://localhost:8080"

// CLIConfig holds the CLI client configuration persisted to disk.
type CLIConfig struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Token    string `json:"token"`
	TokenExp string `json:"token_expires"`
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}
	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]
	switch cmd {
	case "server", "serve":
		runServer()
	case "date":
		cmdDate(args)
	case "login":
		cmdLogin(args)
	case "read", "list":
		cmdRead(args)
	case "submit":
		cmdSubmit(args)
	case "status", "whoami":
		cmdStatus(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ethionews - Multilingual Ethiopian news service

Usage: ethionews <command> [options]

Server:
  serve               Start the API server (default if no command)

Client Commands:
  date [YYYY-MM-DD]   Print the Ethiopian calendar date (today if omitted)
  login               Log in and store the access token
  read                List published articles, or show one with --article
  submit              Send a news tip to the editors
  status              Show the stored login

Examples:
  ethionews date 2023-09-11 --lang am
  ethionews login --url http://localhost:8080 --username admin --password admin123
  ethionews read --limit 5 --lang am
  ethionews read --article 12
  ethionews submit --title "Road closed" --content "Bole road is closed" --name Abebe

Environment Variables (server):
  ETHIONEWS_ADDR            Listen address (default: :8080, or :$PORT)
  ETHIONEWS_DB              Database path (default: ethionews.db)
  ETHIONEWS_JWT_SECRET      Token signing secret
  ETHIONEWS_TOKEN_TTL       Token lifetime (default: 24h)
  ETHIONEWS_UPLOAD_DIR      Image upload directory (default: static/uploads)
  ETHIONEWS_CORS_ORIGINS    Comma-separated allowed origins (default: *)
  ETHIONEWS_LOG_LEVEL       debug, info, warn or error (default: info)
  ETHIONEWS_LOG_FORMAT      text or json (default: text)
  ETHIONEWS_ENV_FILE        Optional .env file (default: .env)`)
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	limiter := rate.NewMemory()
	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
	uploads := upload.NewStorage(cfg.UploadDir, cfg.UploadMaxBytes)
	server := httpapp.NewServer(store, authSvc, limiter, uploads, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneLimiter(ctx, limiter, logger)
	go func() {
		logger.Info("ethionews listening", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func pruneLimiter(ctx context.Context, limiter *rate.MemoryLimiter, logger *slog.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(); n > 0 {
				logger.Debug("pruned rate limit buckets", "removed", n, "remaining", limiter.Len())
			}
		}
	}
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdDate(args []string) {
	fs := flag.NewFlagSet("date", flag.ExitOnError)
	lang := fs.String("lang", ethiocal.DefaultLanguage, "Month name language: "+strings.Join(ethiocal.Languages(), ", "))
	fs.Parse(reorderFlags(args))

	t := time.Now()
	if fs.NArg() > 0 {
		parsed, err := time.Parse(time.DateOnly, fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: date must be YYYY-MM-DD")
			os.Exit(1)
		}
		t = parsed
	}

	g := ethiocal.FromTime(t)
	e := ethiocal.Convert(g)
	fmt.Printf("%s  →  %s  (%d/%d/%d)\n", g, ethiocal.Format(g, *lang), e.Day, e.Month, e.Year)
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	baseURL := fs.String("url", "", "Server URL (default: stored or "+defaultBaseURL+")")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "Password (default: $ETHIONEWS_PASSWORD)")
	fs.Parse(args)

	if *username == "" {
		fmt.Fprintln(os.Stderr, "Error: --username is required")
		os.Exit(1)
	}
	if *password == "" {
		*password = os.Getenv("ETHIONEWS_PASSWORD")
	}

	cfg, _ := loadCLIConfig()
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	c := client.New(cfg.BaseURL)
	session, err := c.Login(*username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg.Username = session.User.Username
	cfg.Token = session.AccessToken
	cfg.TokenExp = session.ExpiresAt.Format(time.RFC3339)
	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Logged in as '%s' (%s)\n", session.User.Username, session.User.Role)
	fmt.Printf("  Expires: %s\n", cfg.TokenExp)
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Number of articles")
	region := fs.Int64("region", 0, "Region ID filter")
	category := fs.Int64("category", 0, "Category ID filter")
	search := fs.String("search", "", "Search text")
	articleID := fs.Int64("article", 0, "Show a single article")
	lang := fs.String("lang", "", "Language for dates: en, am, om, ti")
	fs.Parse(args)

	c := newClient()
	c.Language = *lang

	if *articleID != 0 {
		a, err := c.GetArticle(*articleID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s\n", a.Titles().Get(*lang))
		fmt.Printf("  %s | %d views | #%d\n", a.PublishedAtEthiopian, a.ViewCount, a.ID)
		fmt.Printf("\n%s\n", a.ContentEN)
		return
	}

	articles, err := c.ListArticles(client.ArticleQuery{
		RegionID:   *region,
		CategoryID: *category,
		Search:     *search,
		Limit:      *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n📰 Ethiopian News\n\n")
	for i, a := range articles {
		marker := ""
		if a.IsBreaking {
			marker = " [BREAKING]"
		}
		fmt.Printf("%d. %s%s\n", i+1, a.Titles().Get(*lang), marker)
		fmt.Printf("   %s | %d views | #%d\n\n", a.PublishedAtEthiopian, a.ViewCount, a.ID)
	}
}

func cmdSubmit(args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	title := fs.String("title", "", "Tip title (required)")
	content := fs.String("content", "", "Tip content (required)")
	name := fs.String("name", "", "Your name")
	email := fs.String("email", "", "Your email")
	lang := fs.String("lang", "en", "Language of the tip")
	region := fs.Int64("region", 0, "Region ID")
	fs.Parse(args)

	if *title == "" || *content == "" {
		fmt.Fprintln(os.Stderr, "Error: --title and --content are required")
		os.Exit(1)
	}

	c := newClient()
	in := client.SubmissionInput{
		SubmitterName:  *name,
		SubmitterEmail: *email,
		Title:          *title,
		Content:        *content,
		Language:       *lang,
	}
	if *region != 0 {
		in.RegionID = region
	}
	sub, err := c.Submit(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Submitted: %s\n", sub.Title)
	fmt.Printf("  ID: %d (status: %s)\n", sub.ID, sub.Status)
}

func cmdStatus(args []string) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Server:   %s\n", cfg.BaseURL)
	fmt.Printf("Username: %s\n", cfg.Username)
	if exp, err := time.Parse(time.RFC3339, cfg.TokenExp); err == nil {
		if time.Now().After(exp) {
			fmt.Printf("Token:    expired (%s)\n", cfg.TokenExp)
		} else {
			fmt.Printf("Token:    valid until %s\n", cfg.TokenExp)
		}
	}
}

// reorderFlags moves positional arguments after flags so "date 2023-09-11
// --lang am" parses like "date --lang am 2023-09-11".
func reorderFlags(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positional = append(positional, a)
	}
	return append(flags, positional...)
}

func ethionewsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ethionews")
}

func cliConfigPath() string {
	return filepath.Join(ethionewsDir(), "config.json")
}

func loadCLIConfig() (CLIConfig, error) {
	data, err := os.ReadFile(cliConfigPath())
	if err != nil {
		return CLIConfig{}, errors.New("not logged in - run 'ethionews login'")
	}
	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

func saveCLIConfig(cfg CLIConfig) error {
	if err := os.MkdirAll(ethionewsDir(), 0o700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return os.WriteFile(cliConfigPath(), data, 0o600)
}

// newClient returns a client for the stored server, authenticated when a
// stored token is still valid.
func newClient() *client.Client {
	cfg, _ := loadCLIConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	c := client.New(cfg.BaseURL)
	if cfg.Token != "" {
		exp, err := time.Parse(time.RFC3339, cfg.TokenExp)
		if err == nil && time.Now().Before(exp) {
			c.Token = cfg.Token
			c.TokenExp = exp
		}
	}
	return c
}
