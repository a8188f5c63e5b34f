package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"postdeck/pkg/jwt"
	"postdeck/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeMembershipSource struct {
	role roles.Role
	err  error
}

func (f *fakeMembershipSource) EffectiveRole(orgID, userID string) (roles.Role, error) {
	return f.role, f.err
}

func orgTestRouter(source MembershipSource, min roles.Role) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewService("test-secret-key")
	token, _ := jwtService.GenerateToken("user-123", "member")

	router := gin.New()
	router.Use(AuthMiddleware(jwtService))
	group := router.Group("/orgs/:org_id")
	group.Use(RequireOrgRole(source, min))
	group.GET("/thing", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"org_role": c.GetString("org_role")})
	})
	return router, token
}

func TestRequireOrgRole_Allowed(t *testing.T) {
	router, token := orgTestRouter(&fakeMembershipSource{role: roles.RoleAdmin}, roles.RoleEditor)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orgs/org-1/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestRequireOrgRole_InsufficientRole(t *testing.T) {
	router, token := orgTestRouter(&fakeMembershipSource{role: roles.RoleViewer}, roles.RoleEditor)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orgs/org-1/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOrgRole_NotMember(t *testing.T) {
	router, token := orgTestRouter(&fakeMembershipSource{err: ErrNotMember}, roles.RoleViewer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orgs/org-1/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOrgRole_LookupFailure(t *testing.T) {
	router, token := orgTestRouter(&fakeMembershipSource{err: errors.New("db down")}, roles.RoleViewer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orgs/org-1/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireOrgRole_Unauthenticated(t *testing.T) {
	router, _ := orgTestRouter(&fakeMembershipSource{role: roles.RoleOwner}, roles.RoleViewer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orgs/org-1/thing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedSecretAuth_ValidSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SharedSecretAuth("the-secret"))
	router.POST("/cron/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/cron/run", nil)
	req.Header.Set("Authorization", "Bearer the-secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSharedSecretAuth_WrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SharedSecretAuth("the-secret"))
	router.POST("/cron/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/cron/run", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedSecretAuth_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SharedSecretAuth("the-secret"))
	router.POST("/cron/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/cron/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedSecretAuth_Unconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SharedSecretAuth(""))
	router.POST("/cron/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/cron/run", nil)
	req.Header.Set("Authorization", "Bearer anything")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
