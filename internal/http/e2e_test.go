package httpapp_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/ethionews/internal/auth"
	"github.com/alphabot-ai/ethionews/internal/client"
	"github.com/alphabot-ai/ethionews/internal/config"
	httpapp "github.com/alphabot-ai/ethionews/internal/http"
	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/rate"
	"github.com/alphabot-ai/ethionews/internal/store/sqlite"
	"github.com/alphabot-ai/ethionews/internal/upload"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	cfg := config.Config{
		Addr:           ":0",
		JWTSecret:      "e2e-secret",
		TokenTTL:       time.Hour,
		UploadMaxBytes: 1 << 20,
		CORSOrigins:    []string{"*"},
		Site:           config.Site{URL: "https://ethiopiannews.com", Title: "Ethiopian News", FeedLimit: 20},
		RateLimits:     config.RateLimits{LoginPerMinute: 1000, CommentPerMinute: 1000, SubmissionPerMinute: 1000},
	}
	authSvc := auth.NewService(st, cfg.JWTSecret, cfg.TokenTTL)
	server := httpapp.NewServer(st, authSvc, rate.NewMemory(), upload.NewStorage(t.TempDir(), cfg.UploadMaxBytes), cfg, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	httpServer := &http.Server{Handler: server}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	admin := model.User{
		Email: "admin@ethiopiannews.com", Username: "admin", FullName: "Admin User",
		PasswordHash: hash, Role: model.RoleAdmin, IsActive: true, CreatedAt: time.Now(),
	}
	_, err = st.CreateUser(context.Background(), &admin)
	require.NoError(t, err)

	editor := client.New(baseURL)
	_, err = editor.Login("admin", "admin123")
	require.NoError(t, err)
	assert.True(t, editor.IsAuthenticated())

	category, err := editor.CreateCategory(client.TaxonomyInput{NameEN: "Sports", NameAM: "ስፖርት", Slug: "sports"})
	require.NoError(t, err)
	region, err := editor.CreateRegion(client.TaxonomyInput{NameEN: "Sidama", NameOM: "Sidaamaa", Slug: "sidama"})
	require.NoError(t, err)

	categories, err := editor.ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	regions, err := editor.ListRegions()
	require.NoError(t, err)
	assert.Len(t, regions, 1)

	article, err := editor.CreateArticle(client.ArticleInput{
		TitleEN:    "Hawassa City wins the league",
		ContentEN:  "A late goal sealed the title.",
		CategoryID: &category.ID,
		RegionID:   &region.ID,
		Status:     model.ArticlePublished,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, article.PublishedAtEthiopian)

	reader, err := client.NewTestHelper(baseURL).CreateAuthenticatedClient("e2e-reader")
	require.NoError(t, err)

	_, err = reader.CreateArticle(client.ArticleInput{TitleEN: "Nope", ContentEN: "x"})
	assert.True(t, client.IsStatus(err, http.StatusForbidden), "readers cannot publish: %v", err)

	comment, err := reader.PostComment(article.ID, "Congratulations!")
	require.NoError(t, err)
	assert.False(t, comment.IsApproved)

	reader.Language = "am"
	got, err := reader.GetArticle(article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)
	assert.Equal(t, article.Slug, got.Slug)

	listed, err := client.New(baseURL).ListArticles(client.ArticleQuery{RegionID: region.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, article.ID, listed[0].ID)

	sub, err := client.New(baseURL).Submit(client.SubmissionInput{Title: "Rain in Hawassa", Content: "Flooding near the lake"})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, sub.Status)
	assert.Nil(t, sub.SubmitterID)

	date, err := client.New(baseURL).EthiopianDate("2023-09-11", "am")
	require.NoError(t, err)
	assert.Equal(t, 2016, date.Year)
	assert.Equal(t, "መስከረም 1, 2016", date.Formatted)
}
