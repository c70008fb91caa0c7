package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"knowmark/internal/role"
	"knowmark/internal/security"
)

func testSecurity(t *testing.T) *security.Security {
	t.Helper()
	private, public := testKeyPair(t)
	sec := &security.Security{
		JWTKeys: security.KeySet{Public: public, Private: private},
	}
	copy(sec.Salt[:], "0123456789abcdef")
	return sec
}

func authRouter(sec *security.Security, min role.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{Middleware(sec)}
	if min > role.None {
		handlers = append(handlers, RequireRole(min))
	}
	handlers = append(handlers, func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no principal")
			return
		}
		c.String(http.StatusOK, principal.User.String())
	})
	r.GET("/test", handlers...)
	return r
}

func TestMiddleware_MissingCookie(t *testing.T) {
	r := authRouter(testSecurity(t), role.None)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", w.Code)
	}
}

func TestMiddleware_MalformedCookie(t *testing.T) {
	r := authRouter(testSecurity(t), role.None)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "not.a.jwt"})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed cookie, got %d", w.Code)
	}
}

func TestMiddleware_ValidCookieAttachesPrincipal(t *testing.T) {
	sec := testSecurity(t)
	r := authRouter(sec, role.None)

	u := testUser(role.Normal)
	cookie, err := NewUserRoleToken(u).Cookie(sec.JWTKeys.Private)
	if err != nil {
		t.Fatalf("cookie: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != u.ID.String() {
		t.Errorf("principal user mismatch: got %s, want %s", w.Body.String(), u.ID)
	}
}

func TestMiddleware_ForeignKeyCookieRejected(t *testing.T) {
	sec := testSecurity(t)
	other := testSecurity(t)
	r := authRouter(sec, role.None)

	cookie, err := NewUserRoleToken(testUser(role.Admin)).Cookie(other.JWTKeys.Private)
	if err != nil {
		t.Fatalf("cookie: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token under foreign key, got %d", w.Code)
	}
}

func TestRequireRoleThreshold(t *testing.T) {
	sec := testSecurity(t)
	r := authRouter(sec, role.Author)

	cases := []struct {
		userRole role.Role
		want     int
	}{
		{role.None, http.StatusUnauthorized},
		{role.Normal, http.StatusUnauthorized},
		{role.Author, http.StatusOK},
		{role.Admin, http.StatusOK},
	}
	for _, tc := range cases {
		cookie, err := NewUserRoleToken(testUser(tc.userRole)).Cookie(sec.JWTKeys.Private)
		if err != nil {
			t.Fatalf("cookie: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.AddCookie(cookie)
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("role %v: expected %d, got %d", tc.userRole, tc.want, w.Code)
		}
	}
}

func TestPresenceNilClientIsNoop(t *testing.T) {
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	u := testUser(role.Normal)
	if err := Touch(ctx, nil, u.ID); err != nil {
		t.Errorf("nil redis Touch should no-op: %v", err)
	}
	if err := Forget(ctx, nil, u.ID); err != nil {
		t.Errorf("nil redis Forget should no-op: %v", err)
	}
	if n, err := OnlineUserCount(ctx, nil); err != nil || n != 0 {
		t.Errorf("nil redis OnlineUserCount should be 0, got %d err %v", n, err)
	}
}
