package handlers_test

import (
	"net/http"
	"testing"

	"pressroom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleLifecycle_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t)

	// Admin drafts an article.
	rec := env.do(t, http.MethodPost, "/api/admin/articles", admin, models.CreateArticleRequest{
		Title:   "Launch announcement",
		Content: "<p>soon</p>",
		Tags:    []string{"news"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	draft := decode[models.Article](t, rec)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)
	assert.Equal(t, adminUserID, draft.AuthorID)

	// The public list does not contain the draft.
	rec = env.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[models.ArticlePage](t, rec)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)

	// A direct anonymous fetch is masked as 404.
	rec = env.do(t, http.MethodGet, "/api/articles/"+draft.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The admin sees it through the same endpoints.
	rec = env.do(t, http.MethodGet, "/api/articles/"+draft.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Publishing stamps published_at.
	status := "published"
	rec = env.do(t, http.MethodPatch, "/api/admin/articles/"+draft.ID, admin,
		models.UpdateArticleRequest{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	published := decode[models.Article](t, rec)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, models.StatusPublished, published.Status)

	// Now the public list and fetch both serve it.
	rec = env.do(t, http.MethodGet, "/api/articles", "", nil)
	page = decode[models.ArticlePage](t, rec)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, draft.ID, page.Items[0].ID)

	rec = env.do(t, http.MethodGet, "/api/articles/"+draft.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Article](t, rec)
	assert.Equal(t, published.PublishedAt.Unix(), got.PublishedAt.Unix())

	// Delete, then the article is gone for everyone.
	rec = env.do(t, http.MethodDelete, "/api/admin/articles/"+draft.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ok := decode[map[string]bool](t, rec)
	assert.True(t, ok["ok"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/articles/"+draft.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/articles/"+draft.ID, "", nil).Code)
}

func TestAdminRoutes_AuthMatrix(t *testing.T) {
	env := newTestEnv(t)
	body := models.CreateArticleRequest{Title: "x", Content: "y"}

	// No token at all.
	rec := env.do(t, http.MethodPost, "/api/admin/articles", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = env.do(t, http.MethodPost, "/api/admin/articles", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid identity that is not in the admin registry.
	rec = env.do(t, http.MethodPost, "/api/admin/articles", readerToken(t), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestArticleUpdate_UnknownFieldRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/admin/articles", admin, models.CreateArticleRequest{
		Title: "Strict", Content: "<p>x</p>",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[models.Article](t, rec)

	rec = env.do(t, http.MethodPatch, "/api/admin/articles/"+a.ID, admin,
		map[string]string{"titel": "typo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestArticleList_BadStatusFilter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/articles?status=live", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleList_SearchAndPagination(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t)

	for _, title := range []string{"Go release notes", "Weather report", "Go conference recap"} {
		rec := env.do(t, http.MethodPost, "/api/admin/articles", admin, models.CreateArticleRequest{
			Title: title, Content: "<p>x</p>", Status: "published",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/articles?q=go&limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[models.ArticlePage](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.Limit)
}

func TestArticlePreview_SanitizesMarkup(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/articles/preview", adminToken(t),
		map[string]string{"content": `<p>ok</p><script>alert(1)</script><img src="/media/a.png" alt="a">`})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.NotContains(t, body["content"], "script")
	assert.Contains(t, body["content"], "<p>ok</p>")
	assert.Contains(t, body["content"], "img")
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", "",
		map[string]string{"email": adminEmail, "password": editorPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[map[string]string](t, rec)
	token := login["access_token"]
	require.NotEmpty(t, token)

	// The issued token opens the admin surface.
	rec = env.do(t, http.MethodPost, "/api/admin/articles", token, models.CreateArticleRequest{
		Title: "Via login", Content: "<p>x</p>",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", "",
		map[string]string{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/login", "",
		map[string]string{"email": "ghost@example.com", "password": editorPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
