package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pwdhash"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/stretchr/testify/require"
)

func createTestAuth(t *testing.T) *AuthServer {
	www.EnableRateLimiting = false
	logger := logs.NewTestingLog(t)
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(filepath.Join(t.TempDir(), "test.sqlite")), model.Migrations(logger), 0)
	require.NoError(t, err)
	return NewAuthServer(logger, db)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

func login(t *testing.T, a *AuthServer, username, password string) *http.Cookie {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.SetBasicAuth(username, password)
	a.Login(w, r)
	require.Equal(t, 200, w.Code)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	return cookie
}

func TestCreateUser(t *testing.T) {
	a := createTestAuth(t)

	admin, err := a.CreateUser(" Admin ", "The Admin", "supersecret", string(model.UserPermissionAdmin))
	require.NoError(t, err)
	require.NotZero(t, admin.ID)
	require.Equal(t, "Admin", admin.Username)
	require.Equal(t, "admin", admin.UsernameNormalized)
	require.True(t, admin.IsAdmin())

	// Usernames are unique, case-insensitively
	_, err = a.CreateUser("ADMIN", "", "anothersecret", string(model.UserPermissionViewer))
	require.Error(t, err)
	require.Contains(t, err.Error(), "already taken")

	_, err = a.CreateUser("", "", "supersecret", string(model.UserPermissionViewer))
	require.Error(t, err)
	_, err = a.CreateUser("bob", "", "short", string(model.UserPermissionViewer))
	require.Error(t, err)
	_, err = a.CreateUser("bob", "", "longenough", "x")
	require.Error(t, err)

	viewer, err := a.CreateUser("bob", "Bob", "longenough", string(model.UserPermissionViewer))
	require.NoError(t, err)
	require.False(t, viewer.IsAdmin())
	require.True(t, viewer.HasPermission(model.UserPermissionViewer))

	n, err := a.NumAdminUsers()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	users, err := a.AllUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.NoError(t, a.SetPassword(viewer.ID, "newpassword123"))
	reloaded, err := a.GetUserFromID(viewer.ID)
	require.NoError(t, err)
	require.True(t, pwdhash.VerifyHashBase64("newpassword123", reloaded.Password))
	require.False(t, pwdhash.VerifyHashBase64("longenough", reloaded.Password))
}

func TestLogin(t *testing.T) {
	a := createTestAuth(t)
	user, err := a.CreateUser("bob", "Bob", "password123", string(model.UserPermissionViewer))
	require.NoError(t, err)

	// BASIC auth is accepted case-insensitively on the username
	cookie := login(t, a, "BOB", "password123")

	// The cookie authenticates subsequent requests
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/foo", nil)
	r.AddCookie(cookie)
	cred := a.AuthenticateRequest(w, r, false)
	require.NotNil(t, cred)
	require.Equal(t, user.ID, cred.UserID)
	require.NotEmpty(t, cred.AuthenticatedViaSessionCookie)
	require.False(t, cred.IsAdmin())

	// A garbage cookie does not
	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/foo", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "nonsense"})
	require.Nil(t, a.AuthenticateRequest(w, r, false))
	require.Equal(t, 401, w.Code)

	// Wrong password
	w = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/api/auth/login", nil)
	r.SetBasicAuth("bob", "wrong")
	a.Login(w, r)
	require.Equal(t, 401, w.Code)

	// BASIC credentials only count where explicitly allowed
	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/foo", nil)
	r.SetBasicAuth("bob", "password123")
	require.Nil(t, a.AuthenticateRequest(w, r, false))

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/foo", nil)
	r.SetBasicAuth("bob", "password123")
	cred = a.AuthenticateRequest(w, r, true)
	require.NotNil(t, cred)
	require.True(t, cred.AuthenticatedViaBasic)
}

func TestLogout(t *testing.T) {
	a := createTestAuth(t)
	_, err := a.CreateUser("bob", "", "password123", string(model.UserPermissionViewer))
	require.NoError(t, err)
	cookie := login(t, a, "bob", "password123")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/auth/logout", nil)
	r.AddCookie(cookie)
	a.Logout(w, r)
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/foo", nil)
	r.AddCookie(cookie)
	require.Nil(t, a.AuthenticateRequest(w, r, false))
}

func TestEraseOtherSessions(t *testing.T) {
	a := createTestAuth(t)
	_, err := a.CreateUser("bob", "", "password123", string(model.UserPermissionViewer))
	require.NoError(t, err)
	cookie1 := login(t, a, "bob", "password123")
	cookie2 := login(t, a, "bob", "password123")

	authWith := func(c *http.Cookie) *Credentials {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/foo", nil)
		r.AddCookie(c)
		return a.AuthenticateRequest(w, r, false)
	}

	cred := authWith(cookie1)
	require.NotNil(t, cred)
	require.NoError(t, a.EraseAllSessionsExceptCallingSession(cred))

	require.NotNil(t, authWith(cookie1))
	require.Nil(t, authWith(cookie2))
}

func TestSessionExpiry(t *testing.T) {
	a := createTestAuth(t)
	user, err := a.CreateUser("bob", "", "password123", string(model.UserPermissionViewer))
	require.NoError(t, err)

	// An expired session is rejected, and purged on the next login
	expired := model.Session{
		Key:       pwdhash.HashSessionTokenBase64("expiredtoken"),
		UserID:    user.ID,
		CreatedAt: dbh.MakeIntTime(time.Now().Add(-48 * time.Hour)),
		ExpiresAt: dbh.MakeIntTime(time.Now().Add(-24 * time.Hour)),
	}
	require.NoError(t, a.db.Create(&expired).Error)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/foo", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expiredtoken"})
	require.Nil(t, a.AuthenticateRequest(w, r, false))

	login(t, a, "bob", "password123")
	n := int64(0)
	require.NoError(t, a.db.Model(&model.Session{}).Where("key = ?", expired.Key).Count(&n).Error)
	require.Equal(t, int64(0), n)

	// A session without an expiry survives the purge
	forever := model.Session{
		Key:       pwdhash.HashSessionTokenBase64("forevertoken"),
		UserID:    user.ID,
		CreatedAt: dbh.MakeIntTime(time.Now()),
	}
	require.NoError(t, a.db.Create(&forever).Error)
	a.PurgeExpiredSessions()

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/foo", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forevertoken"})
	require.NotNil(t, a.AuthenticateRequest(w, r, false))
}
