package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientNew(t *testing.T) {
	c := New("https://example.com")

	if c.BaseURL != "https://example.com" {
		t.Errorf("expected base URL 'https://example.com', got '%s'", c.BaseURL)
	}
	if c.HTTPClient == nil {
		t.Error("expected non-nil HTTP client")
	}
	if c.IsAuthenticated() {
		t.Error("expected new client to not be authenticated")
	}
}

func TestLoginKeepsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["username"] != "hana" || req["password"] != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"incorrect username or password"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"token_type":   "bearer",
				"expires_at":   time.Now().Add(time.Hour),
				"user":         map[string]any{"id": 7, "username": "hana", "role": "reader"},
			})
		case "/api/auth/me":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"id":7,"username":"hana","role":"reader"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Login("hana", "wrong"); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 api error, got %v", err)
	}

	session, err := c.Login("hana", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.ID != 7 || !c.IsAuthenticated() {
		t.Fatalf("expected authenticated client, got %+v", session)
	}
	if _, err := c.Me(); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestListArticlesQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":1,"title_en":"Hello","slug":"hello","published_at_ethiopian":"Meskerem 1, 2016"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Language = "am"
	breaking := true
	articles, err := c.ListArticles(ArticleQuery{RegionID: 3, IsBreaking: &breaking, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(articles) != 1 || articles[0].Slug != "hello" || articles[0].PublishedAtEthiopian == "" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	want := "is_breaking=true&lang=am&limit=5&region_id=3"
	if gotQuery != want {
		t.Fatalf("expected query %q, got %q", want, gotQuery)
	}
}

func TestEthiopianDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") != "2023-09-11" || r.URL.Query().Get("lang") != "en" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad query"}`))
			return
		}
		_, _ = w.Write([]byte(`{"gregorian":"2023-09-11","year":2016,"month":1,"day":1,"language":"en","formatted":"Meskerem 1, 2016"}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).EthiopianDate("2023-09-11", "en")
	if err != nil {
		t.Fatalf("ethiopian date: %v", err)
	}
	if got.Year != 2016 || got.Month != 1 || got.Day != 1 || got.Formatted != "Meskerem 1, 2016" {
		t.Fatalf("unexpected date: %+v", got)
	}
}

func TestAPIErrorFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListRegions()
	var apiErr *APIError
	if !IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("expected 502, got %v", err)
	}
	apiErr = err.(*APIError)
	if apiErr.Message != "upstream down" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}
