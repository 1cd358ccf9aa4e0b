package model

import "time"

type Role string

const (
	RoleReader Role = "reader"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// CanEdit reports whether the role may manage newsroom content.
func (r Role) CanEdit() bool {
	return r == RoleEditor || r == RoleAdmin
}

const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
	ArticleArchived  = "archived"
)

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

func ValidArticleStatus(s string) bool {
	return s == ArticleDraft || s == ArticlePublished || s == ArticleArchived
}

func ValidSubmissionStatus(s string) bool {
	return s == SubmissionPending || s == SubmissionApproved || s == SubmissionRejected
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID          int64  `json:"id"`
	NameEN      string `json:"name_en"`
	NameAM      string `json:"name_am,omitempty"`
	NameOM      string `json:"name_om,omitempty"`
	NameTI      string `json:"name_ti,omitempty"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

func (c Category) Names() Localized {
	return Localized{EN: c.NameEN, AM: c.NameAM, OM: c.NameOM, TI: c.NameTI}
}

type Region struct {
	ID     int64  `json:"id"`
	NameEN string `json:"name_en"`
	NameAM string `json:"name_am,omitempty"`
	NameOM string `json:"name_om,omitempty"`
	NameTI string `json:"name_ti,omitempty"`
	Slug   string `json:"slug"`
}

func (r Region) Names() Localized {
	return Localized{EN: r.NameEN, AM: r.NameAM, OM: r.NameOM, TI: r.NameTI}
}

type Article struct {
	ID            int64      `json:"id"`
	TitleEN       string     `json:"title_en"`
	TitleAM       string     `json:"title_am,omitempty"`
	TitleOM       string     `json:"title_om,omitempty"`
	TitleTI       string     `json:"title_ti,omitempty"`
	Slug          string     `json:"slug"`
	ContentEN     string     `json:"content_en"`
	ContentAM     string     `json:"content_am,omitempty"`
	ContentOM     string     `json:"content_om,omitempty"`
	ContentTI     string     `json:"content_ti,omitempty"`
	ExcerptEN     string     `json:"excerpt_en,omitempty"`
	ExcerptAM     string     `json:"excerpt_am,omitempty"`
	ExcerptOM     string     `json:"excerpt_om,omitempty"`
	ExcerptTI     string     `json:"excerpt_ti,omitempty"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	AuthorID      int64      `json:"author_id"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	RegionID      *int64     `json:"region_id,omitempty"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	IsBreaking    bool       `json:"is_breaking"`
	ViewCount     int        `json:"view_count"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (a Article) Titles() Localized {
	return Localized{EN: a.TitleEN, AM: a.TitleAM, OM: a.TitleOM, TI: a.TitleTI}
}

func (a Article) Excerpts() Localized {
	return Localized{EN: a.ExcerptEN, AM: a.ExcerptAM, OM: a.ExcerptOM, TI: a.ExcerptTI}
}

func (a Article) Published() bool {
	return a.Status == ArticlePublished
}

type Comment struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"article_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type Submission struct {
	ID             int64     `json:"id"`
	SubmitterID    *int64    `json:"submitter_id,omitempty"`
	SubmitterName  string    `json:"submitter_name,omitempty"`
	SubmitterEmail string    `json:"submitter_email,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Language       string    `json:"language"`
	Images         []string  `json:"images"`
	RegionID       *int64    `json:"region_id,omitempty"`
	Status         string    `json:"status"`
	ReviewedBy     *int64    `json:"reviewed_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type SiteStats struct {
	Users              int64 `json:"users"`
	Articles           int64 `json:"articles"`
	PublishedArticles  int64 `json:"published_articles"`
	PendingComments    int64 `json:"pending_comments"`
	PendingSubmissions int64 `json:"pending_submissions"`
}
