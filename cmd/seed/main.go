package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alphabot-ai/ethionews/internal/auth"
	"github.com/alphabot-ai/ethionews/internal/client"
	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
	"github.com/alphabot-ai/ethionews/internal/store/sqlite"
)

var categories = []client.TaxonomyInput{
	{NameEN: "Politics", NameAM: "ፖለቲካ", NameOM: "Siyaasa", NameTI: "ፖለቲካ", Slug: "politics"},
	{NameEN: "Business", NameAM: "ቢዝነስ", NameOM: "Daldala", NameTI: "ንግዲ", Slug: "business"},
	{NameEN: "Sports", NameAM: "ስፖርት", NameOM: "Ispoortii", NameTI: "ስፖርት", Slug: "sports"},
	{NameEN: "Technology", NameAM: "ቴክኖሎጂ", NameOM: "Teeknooloojii", NameTI: "ቴክኖሎጂ", Slug: "technology"},
	{NameEN: "Health", NameAM: "ጤና", NameOM: "Fayyaa", NameTI: "ጥዕና", Slug: "health"},
}

var regions = []client.TaxonomyInput{
	{NameEN: "Addis Ababa", NameAM: "አዲስ አበባ", NameOM: "Finfinnee", NameTI: "አዲስ አበባ", Slug: "addis-ababa"},
	{NameEN: "Oromia", NameAM: "ኦሮሚያ", NameOM: "Oromiyaa", NameTI: "ኦሮሚያ", Slug: "oromia"},
	{NameEN: "Amhara", NameAM: "አማራ", NameOM: "Amaaraa", NameTI: "አማራ", Slug: "amhara"},
	{NameEN: "Tigray", NameAM: "ትግራይ", NameOM: "Tigiraay", NameTI: "ትግራይ", Slug: "tigray"},
	{NameEN: "Sidama", NameAM: "ሲዳማ", NameOM: "Sidaamaa", NameTI: "ሲዳማ", Slug: "sidama"},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "ethionews.db", "Database path used by the server")
	username := flag.String("admin", "admin", "Admin username")
	password := flag.String("password", "admin123", "Admin password")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("seeding", "url", *baseURL, "db", *dbPath)

	if err := ensureAdmin(context.Background(), *dbPath, *username, *password); err != nil {
		logger.Error("create admin", "error", err)
		os.Exit(1)
	}

	c := client.New(*baseURL)
	if _, err := c.Login(*username, *password); err != nil {
		logger.Error("login", "error", err)
		os.Exit(1)
	}

	for _, in := range categories {
		if _, err := c.CreateCategory(in); err != nil {
			if client.IsStatus(err, http.StatusBadRequest) {
				logger.Info("category exists", "slug", in.Slug)
				continue
			}
			logger.Error("create category", "slug", in.Slug, "error", err)
			os.Exit(1)
		}
		logger.Info("✓ category", "slug", in.Slug)
	}

	for _, in := range regions {
		if _, err := c.CreateRegion(in); err != nil {
			if client.IsStatus(err, http.StatusBadRequest) {
				logger.Info("region exists", "slug", in.Slug)
				continue
			}
			logger.Error("create region", "slug", in.Slug, "error", err)
			os.Exit(1)
		}
		logger.Info("✓ region", "slug", in.Slug)
	}

	logger.Info("seeding complete", "admin", *username)
}

// ensureAdmin inserts the admin account unless the username is taken.
// Accounts created through the API are always readers.
func ensureAdmin(ctx context.Context, dbPath, username, password string) error {
	st, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := model.User{
		Email:        "admin@ethiopiannews.com",
		Username:     username,
		FullName:     "Admin User",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	_, err = st.CreateUser(ctx, &admin)
	return err
}
