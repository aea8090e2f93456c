package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(payload *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ETag())
	router.GET("/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": *payload})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	router.POST("/items", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router
}

func get(router http.Handler, path, ifNoneMatch string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ifNoneMatch != "" {
		req.Header.Set("If-None-Match", ifNoneMatch)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestETag_RevalidatesUnchangedBody(t *testing.T) {
	payload := "a"
	router := setupTestRouter(&payload)

	w := get(router, "/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":"a"}`, w.Body.String())
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, Tag(w.Body.Bytes()), tag)

	w = get(router, "/items", tag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	payload = "b"
	w = get(router, "/items", tag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, tag, w.Header().Get("ETag"))
}

func TestETag_SkipsErrorsAndWrites(t *testing.T) {
	payload := "a"
	router := setupTestRouter(&payload)

	w := get(router, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
}

func TestMatches(t *testing.T) {
	tag := Tag([]byte("body"))
	assert.True(t, Matches(tag, tag))
	assert.True(t, Matches(`"other", `+tag, tag))
	assert.True(t, Matches("W/"+tag, tag))
	assert.True(t, Matches("*", tag))
	assert.False(t, Matches("", tag))
	assert.False(t, Matches(`"other"`, tag))
}
