package store

import (
	"context"
	"errors"

	"github.com/alphabot-ai/ethionews/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateSlug     = errors.New("slug already exists")
)

type ArticleListOpts struct {
	// Status defaults to published when empty.
	Status     string
	CategoryID int64
	RegionID   int64
	IsBreaking *bool
	Search     string
	Skip       int
	Limit      int
}

type TrendingOpts struct {
	RegionID int64
	Limit    int
}

type SubmissionListOpts struct {
	Status string
	Skip   int
	Limit  int
}

type Store interface {
	UserStore
	CategoryStore
	RegionStore
	ArticleStore
	CommentStore
	SubmissionStore
	GetSiteStats(ctx context.Context) (model.SiteStats, error)
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) (int64, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
}

type RegionStore interface {
	CreateRegion(ctx context.Context, region *model.Region) (int64, error)
	ListRegions(ctx context.Context) ([]model.Region, error)
	GetRegionBySlug(ctx context.Context, slug string) (model.Region, error)
}

type ArticleStore interface {
	CreateArticle(ctx context.Context, article *model.Article) (int64, error)
	GetArticle(ctx context.Context, id int64) (model.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (model.Article, error)
	ListArticles(ctx context.Context, opts ArticleListOpts) ([]model.Article, error)
	ListTrending(ctx context.Context, opts TrendingOpts) ([]model.Article, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	IncrementArticleViews(ctx context.Context, id int64) error
	DeleteArticle(ctx context.Context, id int64) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	ListApprovedComments(ctx context.Context, articleID int64) ([]model.Comment, error)
	ListPendingComments(ctx context.Context, limit int) ([]model.Comment, error)
	ApproveComment(ctx context.Context, id int64) error
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, submission *model.Submission) (int64, error)
	GetSubmission(ctx context.Context, id int64) (model.Submission, error)
	ListSubmissions(ctx context.Context, opts SubmissionListOpts) ([]model.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status string, reviewerID int64) error
}
