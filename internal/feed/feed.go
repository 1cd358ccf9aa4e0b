// Package feed renders published articles as an RSS 2.0 channel.
package feed

import (
	"time"

	"github.com/gorilla/feeds"

	"github.com/alphabot-ai/ethionews/internal/model"
)

const (
	ContentType       = "application/rss+xml"
	descriptionLength = 200
)

// Channel is the feed-level metadata.
type Channel struct {
	SiteURL     string
	Title       string
	Description string
	Language    string
}

// Build maps articles to a feed. Articles are used in the order given.
func Build(ch Channel, articles []model.Article) *feeds.Feed {
	f := &feeds.Feed{
		Id:          ch.SiteURL,
		Title:       ch.Title,
		Link:        &feeds.Link{Href: ch.SiteURL, Rel: "alternate"},
		Description: ch.Description,
	}
	for _, a := range articles {
		link := ch.SiteURL + "/article/" + a.Slug
		item := &feeds.Item{
			Id:          link,
			Title:       a.TitleEN,
			Link:        &feeds.Link{Href: link},
			Description: description(a),
		}
		if a.PublishedAt != nil {
			item.Created = a.PublishedAt.UTC()
		}
		if a.FeaturedImage != "" {
			item.Enclosure = &feeds.Enclosure{Url: a.FeaturedImage, Length: "0", Type: "image/jpeg"}
		}
		f.Items = append(f.Items, item)
		if item.Created.After(f.Created) {
			f.Created = item.Created
		}
	}
	if f.Created.IsZero() {
		f.Created = time.Now().UTC()
	}
	return f
}

// RSS renders the channel as RSS 2.0 XML.
func RSS(ch Channel, articles []model.Article) (string, error) {
	rss := (&feeds.Rss{Feed: Build(ch, articles)}).RssFeed()
	if ch.Language != "" {
		rss.Language = ch.Language
	}
	return feeds.ToXML(rss)
}

func description(a model.Article) string {
	if a.ExcerptEN != "" {
		return a.ExcerptEN
	}
	runes := []rune(a.ContentEN)
	if len(runes) > descriptionLength {
		runes = runes[:descriptionLength]
	}
	return string(runes)
}
