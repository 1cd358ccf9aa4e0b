package httpapp

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alphabot-ai/ethionews/internal/store"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"  Breaking: Addis!  ", "breaking-addis"},
		{"already-a-slug", "already-a-slug"},
		{"Ethiopia 2016 E.C.", "ethiopia-2016-e-c"},
		{"የህዳሴ ግድብ", "የህዳሴ-ግድብ"},
		{"---", ""},
		{"Multiple   spaces -- x", "multiple-spaces-x"},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRequestLanguage(t *testing.T) {
	cases := []struct {
		query  string
		accept string
		want   string
	}{
		{"", "", "en"},
		{"?lang=am", "", "am"},
		{"?lang=ti-ET", "", "ti"},
		{"?lang=fr", "am", "fr"},
		{"", "om-ET,en;q=0.8", "om"},
		{"", "fr-FR", "en"},
		{"", "de, am;q=0.5", "am"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/articles"+tc.query, nil)
		if tc.accept != "" {
			r.Header.Set("Accept-Language", tc.accept)
		}
		if got := requestLanguage(r); got != tc.want {
			t.Errorf("query %q accept %q: got %q, want %q", tc.query, tc.accept, got, tc.want)
		}
	}
}

func TestWriteStoreError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", store.ErrDuplicateSlug), http.StatusBadRequest},
		{store.ErrDuplicateEmail, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeStoreError(rec, tc.err)
		if rec.Code != tc.want {
			t.Errorf("%v: got %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestCORSWildcard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := cors([]string{"*"}, next)

	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.Header.Set("Origin", "http://anywhere.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected request to reach handler, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("requests without Origin get no CORS headers")
	}
}
