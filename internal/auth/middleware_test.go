package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newGuardedRouter wires the guard and refresher the way the application
// does: guard first, then rotation, then the handler.
func newGuardedRouter(t *testing.T) (*gin.Engine, *UserRepository, *TokenService) {
	t.Helper()

	repo := newTestUserRepository(t)
	tokens := newTestTokenService(t, "1h")
	refresh := NewRefreshService(tokens)
	log := logger.NewDefault("test")

	r := gin.New()
	grp := r.Group("/protected")
	grp.Use(RequireAuth(tokens, repo))
	grp.Use(TokenRefresher(refresh, log))
	grp.GET("", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r, repo, tokens
}

func signUpAndToken(t *testing.T, repo *UserRepository, tokens *TokenService, username string) string {
	t.Helper()
	if err := repo.SignUp(context.Background(), username, username+"@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	token, err := tokens.Issue(username)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func doProtected(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	r, _, _ := newGuardedRouter(t)

	w := doProtected(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)
	token := signUpAndToken(t, repo, tokens, "alice")

	for _, header := range []string{"Basic abc", token, "Bearer"} {
		w := doProtected(r, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	r, _, _ := newGuardedRouter(t)

	w := doProtected(r, "Bearer not-a-real-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("Authorization"); got != "" {
		t.Errorf("rejected response must not carry an Authorization header, got %q", got)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	repo := newTestUserRepository(t)
	tokens := newTestTokenService(t, "-1m")
	log := logger.NewDefault("test")

	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, repo), TokenRefresher(NewRefreshService(tokens), log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := signUpAndToken(t, repo, tokens, "alice")
	w := doProtected(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TOKEN_EXPIRED") {
		t.Errorf("expected TOKEN_EXPIRED code, got %s", w.Body.String())
	}
}

func TestRequireAuthAttachesUser(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)
	token := signUpAndToken(t, repo, tokens, "alice")

	w := doProtected(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"username":"alice"`) {
		t.Errorf("expected handler to see alice, got %s", w.Body.String())
	}
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)
	token := signUpAndToken(t, repo, tokens, "alice")

	// Remove the user after the token was issued. The token still verifies
	// but must no longer resolve.
	if err := repo.db.WithContext(context.Background()).Where("username = ?", "alice").Delete(&User{}).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	w := doProtected(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for deleted user, got %d", w.Code)
	}
}

func TestTokenRefresherRotatesToken(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)
	token := signUpAndToken(t, repo, tokens, "alice")

	w := doProtected(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	rotated := w.Header().Get("Authorization")
	if !strings.HasPrefix(rotated, "Bearer ") {
		t.Fatalf("expected rotated Bearer header, got %q", rotated)
	}

	// The rotated token must verify on its own.
	claims, err := tokens.Parse(strings.TrimPrefix(rotated, "Bearer "))
	if err != nil {
		t.Fatalf("rotated token should verify: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("rotated token should name alice, got %q", claims.Username)
	}
}

func TestTokenRefresherBothTokensStayValid(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)
	original := signUpAndToken(t, repo, tokens, "alice")

	w := doProtected(r, "Bearer "+original)
	rotated := strings.TrimPrefix(w.Header().Get("Authorization"), "Bearer ")

	// No revocation list: the superseded token keeps working until expiry.
	for _, tok := range []string{original, rotated} {
		resp := doProtected(r, "Bearer "+tok)
		if resp.Code != http.StatusOK {
			t.Errorf("token should still be accepted, got %d", resp.Code)
		}
	}
}

// failingIssuer verifies like the real service but cannot issue, forcing
// the rotation failure path.
type failingIssuer struct {
	*TokenService
}

func (f *failingIssuer) Issue(string) (string, error) {
	return "", errors.New("signing backend unavailable")
}

func TestTokenRefresherFailureDoesNotMaskResponse(t *testing.T) {
	repo := newTestUserRepository(t)
	tokens := newTestTokenService(t, "1h")
	refresh := NewRefreshService(&failingIssuer{tokens})
	log := logger.NewDefault("test")

	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, repo), TokenRefresher(refresh, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	token := signUpAndToken(t, repo, tokens, "alice")
	w := doProtected(r, "Bearer "+token)

	// A refresh fault is logged and dropped; the primary response wins.
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 despite refresh failure, got %d", w.Code)
	}
	if got := w.Header().Get("Authorization"); got != "" {
		t.Errorf("failed rotation must not attach a header, got %q", got)
	}
}

func TestTokenRefresherSkipsUnauthenticatedRequests(t *testing.T) {
	tokens := newTestTokenService(t, "1h")
	log := logger.NewDefault("test")

	r := gin.New()
	r.GET("/open", TokenRefresher(NewRefreshService(tokens), log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Authorization"); got != "" {
		t.Errorf("no user on the request, expected no rotation, got %q", got)
	}
}
