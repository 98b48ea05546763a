package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/apperrors"
	"pressroom/internal/models"
)

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Update(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, id string) error
	// List returns the requested window plus the total match count
	// before pagination. visible limits the statuses the caller may
	// observe; nil means unrestricted.
	List(ctx context.Context, f models.ArticleFilter, visible []models.ArticleStatus) ([]*models.Article, int, error)
	IncrementViews(ctx context.Context, id string) error
}

type articleRepo struct{ db *pgxpool.Pool }

func NewArticleRepo(db *pgxpool.Pool) ArticleRepo { return &articleRepo{db: db} }

const articleColumns = `id, title, content, excerpt, featured_image_url, meta_title, meta_description,
	tags, categories, status, author_id, published_at, created_at, updated_at, view_count`

func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	tagsJSON, _ := json.Marshal(a.Tags)
	catsJSON, _ := json.Marshal(a.Categories)

	const q = `
		INSERT INTO articles (id, title, content, excerpt, featured_image_url, meta_title, meta_description,
			tags, categories, status, author_id, published_at, created_at, updated_at, view_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9::jsonb,$10,$11,$12,$13,$14,0)
	`
	_, err := r.db.Exec(ctx, q,
		a.ID,
		a.Title,
		a.Content,
		a.Excerpt,
		a.FeaturedImageURL,
		a.MetaTitle,
		a.MetaDescription,
		tagsJSON,
		catsJSON,
		a.Status,
		a.AuthorID,
		a.PublishedAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return storeErr(err)
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE id=$1`
	a, err := scanArticle(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	tagsJSON, _ := json.Marshal(a.Tags)
	catsJSON, _ := json.Marshal(a.Categories)

	const q = `
		UPDATE articles
		SET title=$1,
		    content=$2,
		    excerpt=$3,
		    featured_image_url=$4,
		    meta_title=$5,
		    meta_description=$6,
		    tags=$7::jsonb,
		    categories=$8::jsonb,
		    status=$9,
		    published_at=$10,
		    updated_at=$11
		WHERE id=$12
	`
	tag, err := r.db.Exec(ctx, q,
		a.Title, a.Content, a.Excerpt, a.FeaturedImageURL, a.MetaTitle, a.MetaDescription,
		tagsJSON, catsJSON, a.Status, a.PublishedAt, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM articles WHERE id=$1", id)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *articleRepo) List(ctx context.Context, f models.ArticleFilter, visible []models.ArticleStatus) ([]*models.Article, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, *f.Status)
		i++
	}
	if f.TitleQuery != "" {
		where = append(where, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", i))
		args = append(args, f.TitleQuery)
		i++
	}
	if visible != nil {
		placeholders := make([]string, 0, len(visible))
		for _, s := range visible {
			placeholders = append(placeholders, fmt.Sprintf("$%d", i))
			args = append(args, s)
			i++
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ",")+")")
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM articles"+cond, args...).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	sql := `SELECT ` + articleColumns + ` FROM articles` + cond +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset())

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	var list []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, storeErr(err)
		}
		list = append(list, a)
	}
	return list, total, storeErr(rows.Err())
}

func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "UPDATE articles SET view_count = view_count + 1 WHERE id=$1", id)
	return storeErr(err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var tagsRaw, catsRaw []byte
	if err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.FeaturedImageURL, &a.MetaTitle, &a.MetaDescription,
		&tagsRaw, &catsRaw, &a.Status, &a.AuthorID, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt, &a.ViewCount,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal(tagsRaw, &a.Tags)
	_ = json.Unmarshal(catsRaw, &a.Categories)
	return &a, nil
}

// storeErr translates driver errors into the shared taxonomy: missing
// rows, expired deadlines, everything else is backing-store
// unavailability.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
}
