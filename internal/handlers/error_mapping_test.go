package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"pressroom/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleList_TimeoutMapsTo504(t *testing.T) {
	env := newTestEnv(t)
	env.articles.failWith = fmt.Errorf("%w: %v", apperrors.ErrTimeout, context.DeadlineExceeded)

	rec := env.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "timed out")
}

func TestArticleList_StoreOutageMapsTo503(t *testing.T) {
	env := newTestEnv(t)
	env.articles.failWith = fmt.Errorf("%w: connection refused", apperrors.ErrStorage)

	rec := env.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "service unavailable")
}

func TestArticleGet_TimeoutMapsTo504(t *testing.T) {
	env := newTestEnv(t)
	env.articles.failWith = fmt.Errorf("%w: %v", apperrors.ErrTimeout, context.DeadlineExceeded)

	rec := env.do(t, http.MethodGet, "/api/articles/some-id", "", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
}
