package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/reposcout/reposcout/pkg/config"
)

func newUserRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UserMiddleware())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return router
}

func TestUserMiddleware(t *testing.T) {
	router := newUserRouter()

	t.Run("Header identity wins", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("X-User-ID", "alice")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("Missing header falls back to the system default", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/whoami", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, config.DefaultUserID(), w.Body.String())
	})

	t.Run("Two callers stay isolated", func(t *testing.T) {
		for _, user := range []string{"alice", "bob"} {
			req, _ := http.NewRequest("GET", "/whoami", nil)
			req.Header.Set("X-User-ID", user)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, user, w.Body.String())
		}
	})
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, config.DefaultUserID(), GetUserID(c))
}
