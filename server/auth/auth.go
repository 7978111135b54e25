// Package auth is session and user management for the HTTP API
package auth

import (
	"net/http"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pwdhash"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/rando"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"gorm.io/gorm"
)

// SessionCookie is the name of our session cookie
const SessionCookie = "session"

// SessionExpiry is how long a login lasts
const SessionExpiry = 30 * 24 * time.Hour

type Credentials struct {
	UserID                        int64
	User                          *model.User
	AuthenticatedViaSessionCookie string // pwdhash.HashSessionTokenBase64(cookie value), if session cookie auth was used
	AuthenticatedViaBasic         bool   // True if authenticated via username/password
}

func (c *Credentials) IsAdmin() bool {
	return c.User != nil && c.User.IsAdmin()
}

func (c *Credentials) PanicIfNotAdmin() {
	if !c.IsAdmin() {
		www.PanicForbidden()
	}
}

type AuthServer struct {
	log logs.Log
	db  *gorm.DB
}

func NewAuthServer(log logs.Log, db *gorm.DB) *AuthServer {
	return &AuthServer{
		log: log,
		db:  db,
	}
}

// If authorization fails, sends a 401 to 'w', and returns nil.
// If authorization succeeds, returns a non-nil Credentials.
// You should only set allowBasic to true on rate limited endpoints.
func (a *AuthServer) AuthenticateRequest(w http.ResponseWriter, r *http.Request, allowBasic bool) *Credentials {
	cookie, _ := r.Cookie(SessionCookie)
	if cookie != nil {
		hashed := pwdhash.HashSessionTokenBase64(cookie.Value)
		session := model.Session{}
		a.db.Where("key = ?", hashed).Find(&session)
		if session.UserID != 0 && (session.ExpiresAt.IsZero() || session.ExpiresAt.Get().After(time.Now())) {
			if user, err := a.GetUserFromID(session.UserID); err == nil && user.ID != 0 {
				return &Credentials{
					UserID:                        session.UserID,
					User:                          user,
					AuthenticatedViaSessionCookie: hashed,
				}
			}
		}
	}
	if allowBasic {
		if username, password, ok := r.BasicAuth(); ok {
			user := model.User{}
			a.db.Where("username_normalized = ?", model.NormalizeUsername(username)).Find(&user)
			if user.ID != 0 && pwdhash.VerifyHashBase64(password, user.Password) {
				return &Credentials{
					UserID:                user.ID,
					User:                  &user,
					AuthenticatedViaBasic: true,
				}
			}
		}
	}
	www.SendError(w, "Unauthorized", http.StatusUnauthorized)
	return nil
}

// Login authenticates with BASIC credentials and issues a session cookie
func (a *AuthServer) Login(w http.ResponseWriter, r *http.Request) {
	www.RateLimit("login", 2, w, r)
	cred := a.AuthenticateRequest(w, r, true)
	if cred == nil {
		return
	}
	if cred.AuthenticatedViaSessionCookie != "" {
		// Already logged in
		www.SendOK(w)
		return
	}
	now := time.Now().UTC()
	expiresAt := now.Add(SessionExpiry)
	token := rando.StrongRandomAlphaNumChars(30)
	session := model.Session{
		Key:       pwdhash.HashSessionTokenBase64(token),
		UserID:    cred.UserID,
		CreatedAt: dbh.MakeIntTime(now),
		ExpiresAt: dbh.MakeIntTime(expiresAt),
	}
	if err := a.db.Create(&session).Error; err != nil {
		a.log.Errorf("Error creating session: %v", err)
		www.SendError(w, "Error creating session", http.StatusInternalServerError)
		return
	}
	a.PurgeExpiredSessions()
	a.log.Infof("User %v logged in", cred.UserID)
	http.SetCookie(w, &http.Cookie{
		Name:    SessionCookie,
		Value:   token,
		Path:    "/",
		Expires: expiresAt,
	})
	www.SendOK(w)
}

func (a *AuthServer) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, _ := r.Cookie(SessionCookie)
	if cookie != nil {
		a.db.Where("key = ?", pwdhash.HashSessionTokenBase64(cookie.Value)).Delete(&model.Session{})
	}
	www.SendOK(w)
}

// Erase all sessions except the one that issued this API request
func (a *AuthServer) EraseAllSessionsExceptCallingSession(cred *Credentials) error {
	var err error
	if cred.AuthenticatedViaSessionCookie != "" {
		err = a.db.Where("user_id = ? AND key != ?", cred.UserID, cred.AuthenticatedViaSessionCookie).Delete(&model.Session{}).Error
	} else {
		err = a.db.Where("user_id = ?", cred.UserID).Delete(&model.Session{}).Error
	}
	if err != nil {
		a.log.Errorf("Error erasing sessions: %v", err)
	}
	return err
}

func (a *AuthServer) PurgeExpiredSessions() {
	if err := a.db.Where("expires_at < ?", time.Now().UnixMilli()).Delete(&model.Session{}).Error; err != nil {
		a.log.Warnf("PurgeExpiredSessions failed: %v", err)
	}
}
