package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/ethionews/internal/model"
)

var channel = Channel{
	SiteURL:     "https://ethiopiannews.com",
	Title:       "Ethiopian News",
	Description: "Latest news from Ethiopia",
	Language:    "en",
}

func TestBuild(t *testing.T) {
	published := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	long := strings.Repeat("ሀ", 250)
	articles := []model.Article{
		{TitleEN: "With excerpt", Slug: "with-excerpt", ExcerptEN: "Short summary", ContentEN: "Body", PublishedAt: &published, FeaturedImage: "/uploads/a.jpg"},
		{TitleEN: "Long body", Slug: "long-body", ContentEN: long},
	}

	f := Build(channel, articles)
	require.Len(t, f.Items, 2)
	assert.Equal(t, published, f.Created)

	first := f.Items[0]
	assert.Equal(t, "https://ethiopiannews.com/article/with-excerpt", first.Link.Href)
	assert.Equal(t, first.Link.Href, first.Id)
	assert.Equal(t, "Short summary", first.Description)
	require.NotNil(t, first.Enclosure)
	assert.Equal(t, "image/jpeg", first.Enclosure.Type)

	second := f.Items[1]
	assert.Nil(t, second.Enclosure)
	assert.Equal(t, 200, len([]rune(second.Description)))
}

func TestRSS(t *testing.T) {
	published := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	out, err := RSS(channel, []model.Article{
		{TitleEN: "Addis light rail expands", Slug: "light-rail", ContentEN: "Body", PublishedAt: &published},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<rss version="2.0"`)
	assert.Contains(t, out, "<title>Ethiopian News</title>")
	assert.Contains(t, out, "<language>en</language>")
	assert.Contains(t, out, "<title>Addis light rail expands</title>")
	assert.Contains(t, out, "https://ethiopiannews.com/article/light-rail")
}

func TestRSSEmpty(t *testing.T) {
	out, err := RSS(channel, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "<channel>")
	assert.NotContains(t, out, "<item>")
}
