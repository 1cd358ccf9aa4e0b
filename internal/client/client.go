// Package client provides a Go client for the Ethiopian news API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alphabot-ai/ethionews/internal/ethiocal"
	"github.com/alphabot-ai/ethionews/internal/model"
)

// Client is an Ethiopian news API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
	TokenExp   time.Time
	// Language is sent as the lang query parameter when set.
	Language string
}

// New creates a new client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Session is the result of register or login.
type Session struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

// Article is an article as served by the API.
type Article struct {
	model.Article
	PublishedAtEthiopian string `json:"published_at_ethiopian,omitempty"`
}

type ArticleInput struct {
	TitleEN       string   `json:"title_en"`
	TitleAM       string   `json:"title_am,omitempty"`
	TitleOM       string   `json:"title_om,omitempty"`
	TitleTI       string   `json:"title_ti,omitempty"`
	Slug          string   `json:"slug,omitempty"`
	ContentEN     string   `json:"content_en"`
	ContentAM     string   `json:"content_am,omitempty"`
	ContentOM     string   `json:"content_om,omitempty"`
	ContentTI     string   `json:"content_ti,omitempty"`
	ExcerptEN     string   `json:"excerpt_en,omitempty"`
	ExcerptAM     string   `json:"excerpt_am,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	CategoryID    *int64   `json:"category_id,omitempty"`
	RegionID      *int64   `json:"region_id,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Status        string   `json:"status,omitempty"`
	IsBreaking    bool     `json:"is_breaking,omitempty"`
}

// ArticleQuery filters ListArticles. Zero values are omitted.
type ArticleQuery struct {
	Status     string
	CategoryID int64
	RegionID   int64
	IsBreaking *bool
	Search     string
	Skip       int
	Limit      int
}

func (q ArticleQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.RegionID > 0 {
		v.Set("region_id", strconv.FormatInt(q.RegionID, 10))
	}
	if q.IsBreaking != nil {
		v.Set("is_breaking", strconv.FormatBool(*q.IsBreaking))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// TaxonomyInput creates a category or a region.
type TaxonomyInput struct {
	NameEN      string `json:"name_en"`
	NameAM      string `json:"name_am,omitempty"`
	NameOM      string `json:"name_om,omitempty"`
	NameTI      string `json:"name_ti,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

type SubmissionInput struct {
	SubmitterName  string   `json:"submitter_name,omitempty"`
	SubmitterEmail string   `json:"submitter_email,omitempty"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Language       string   `json:"language,omitempty"`
	Images         []string `json:"images,omitempty"`
	RegionID       *int64   `json:"region_id,omitempty"`
}

// CalendarDate is the response of the Ethiopian date endpoint.
type CalendarDate struct {
	Gregorian string `json:"gregorian"`
	ethiocal.EthiopianDate
	Language  string `json:"language"`
	Formatted string `json:"formatted"`
}

// IsAuthenticated returns true if the client has a valid token.
func (c *Client) IsAuthenticated() bool {
	return c.Token != "" && time.Now().Before(c.TokenExp)
}

// Register creates a reader account and keeps its token.
func (c *Client) Register(email, username, password, fullName string) (*Session, error) {
	var session Session
	err := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":     email,
		"username":  username,
		"password":  password,
		"full_name": fullName,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	return &session, nil
}

// Login authenticates with username and password and keeps the token.
func (c *Client) Login(username, password string) (*Session, error) {
	var session Session
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	return &session, nil
}

func (c *Client) setSession(s Session) {
	c.Token = s.AccessToken
	c.TokenExp = s.ExpiresAt
}

// Me returns the authenticated user.
func (c *Client) Me() (*model.User, error) {
	var user model.User
	if err := c.do(http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListArticles(q ArticleQuery) ([]Article, error) {
	var articles []Article
	if err := c.do(http.MethodGet, "/api/articles?"+q.values().Encode(), nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) GetArticle(id int64) (*Article, error) {
	var article Article
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d", id), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle requires an editor or admin token.
func (c *Client) CreateArticle(in ArticleInput) (*Article, error) {
	var article Article
	if err := c.do(http.MethodPost, "/api/articles", in, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle sends a partial update; keys use the JSON field names.
func (c *Client) UpdateArticle(id int64, fields map[string]any) (*Article, error) {
	var article Article
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/articles/%d", id), fields, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) CreateCategory(in TaxonomyInput) (*model.Category, error) {
	var category model.Category
	if err := c.do(http.MethodPost, "/api/categories", in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateRegion(in TaxonomyInput) (*model.Region, error) {
	in.Description = ""
	var region model.Region
	if err := c.do(http.MethodPost, "/api/regions", in, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (c *Client) ListRegions() ([]model.Region, error) {
	var regions []model.Region
	if err := c.do(http.MethodGet, "/api/regions", nil, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// Submit sends a citizen news tip. A token is optional.
func (c *Client) Submit(in SubmissionInput) (*model.Submission, error) {
	var sub model.Submission
	if err := c.do(http.MethodPost, "/api/submissions", in, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// PostComment adds a comment; it stays hidden until approved.
func (c *Client) PostComment(articleID int64, content string) (*model.Comment, error) {
	var comment model.Comment
	err := c.do(http.MethodPost, "/api/comments", map[string]any{
		"article_id": articleID,
		"content":    content,
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// EthiopianDate converts date (YYYY-MM-DD, empty for today) on the server.
func (c *Client) EthiopianDate(date, lang string) (*CalendarDate, error) {
	v := url.Values{}
	if date != "" {
		v.Set("date", date)
	}
	if lang != "" {
		v.Set("lang", lang)
	}
	var out CalendarDate
	if err := c.do(http.MethodGet, "/api/calendar/ethiopian?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs a request and decodes a JSON response into out.
func (c *Client) do(method, path string, body, out any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		msg := string(data)
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRequest performs an HTTP request, authenticated when a token is set.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, err
	}
	if c.Language != "" {
		q := u.Query()
		if q.Get("lang") == "" {
			q.Set("lang", c.Language)
			u.RawQuery = q.Encode()
		}
	}

	req, err := http.NewRequest(method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// TestPassword is the password used for accounts made by TestHelper.
const TestPassword = "password123"

// CreateAuthenticatedClient registers a reader named name and returns a
// client holding its token.
func (h *TestHelper) CreateAuthenticatedClient(name string) (*Client, error) {
	c := New(h.BaseURL)
	if _, err := c.Register(name+"@example.com", name, TestPassword, name); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

// GetToken registers a reader and returns its access token.
func (h *TestHelper) GetToken(name string) (string, error) {
	c, err := h.CreateAuthenticatedClient(name)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}
