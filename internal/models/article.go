package models

import "time"

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Article struct {
	ID               string        `db:"id"                 json:"id"`
	Title            string        `db:"title"              json:"title"`
	Content          string        `db:"content"            json:"content"`
	Excerpt          *string       `db:"excerpt"            json:"excerpt,omitempty"`
	FeaturedImageURL *string       `db:"featured_image_url" json:"featured_image_url,omitempty"`
	MetaTitle        *string       `db:"meta_title"         json:"meta_title,omitempty"`
	MetaDescription  *string       `db:"meta_description"   json:"meta_description,omitempty"`
	Tags             []string      `db:"-"                  json:"tags,omitempty"`
	Categories       []string      `db:"-"                  json:"categories,omitempty"`
	Status           ArticleStatus `db:"status"             json:"status"`
	AuthorID         string        `db:"author_id"          json:"author_id"`
	PublishedAt      *time.Time    `db:"published_at"       json:"published_at,omitempty"`
	CreatedAt        time.Time     `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"         json:"updated_at"`
	ViewCount        int64         `db:"view_count"         json:"view_count"`
}

// ApplyStatus moves the article into the given state and performs the
// one side effect the lifecycle has: the first transition into
// "published" stamps PublishedAt. The timestamp is never cleared by
// later transitions, so re-publishing an archived article keeps the
// original publication time.
func (a *Article) ApplyStatus(status ArticleStatus, now time.Time) {
	a.Status = status
	if status == StatusPublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	Title            string   `json:"title"    example:"Breaking news today"`
	Content          string   `json:"content"  example:"<p>Body markup, stored verbatim</p>"`
	Excerpt          string   `json:"excerpt,omitempty"`
	FeaturedImageURL string   `json:"featured_image_url,omitempty"`
	MetaTitle        string   `json:"meta_title,omitempty"`
	MetaDescription  string   `json:"meta_description,omitempty"`
	Tags             []string `json:"tags,omitempty"     example:"go,backend"`
	Categories       []string `json:"categories,omitempty"`
	Status           string   `json:"status,omitempty"   example:"draft"`
}

// UpdateArticleRequest is a partial update: nil fields are left
// untouched. Decoded with DisallowUnknownFields so loose payloads are
// rejected instead of silently dropped.
// swagger:model UpdateArticleRequest
type UpdateArticleRequest struct {
	Title            *string   `json:"title,omitempty"`
	Content          *string   `json:"content,omitempty"`
	Excerpt          *string   `json:"excerpt,omitempty"`
	FeaturedImageURL *string   `json:"featured_image_url,omitempty"`
	MetaTitle        *string   `json:"meta_title,omitempty"`
	MetaDescription  *string   `json:"meta_description,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	Categories       *[]string `json:"categories,omitempty"`
	Status           *string   `json:"status,omitempty"`
}

// ArticleFilter is the composable admin-list query: optional status
// equality, optional case-insensitive title substring, 1-based page.
type ArticleFilter struct {
	Status     *ArticleStatus
	TitleQuery string
	Page       int
	Limit      int
}

func (f *ArticleFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// ArticlePage is the list-endpoint payload: a window of items plus the
// total match count before pagination.
type ArticlePage struct {
	Items []*Article `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
