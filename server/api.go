package server

import (
	"net/http"
	"os"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"
)

// Inference is expensive, so /api/detect gets a per-IP rate limit
const detectRequestsPerMinute = 30

type authenticatedHandler func(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials)

func (s *Server) setupHttpRoutes() error {
	router := httprouter.New()

	// This is useful when debugging, for "curl -u admin:123 ..."
	alwaysAllowBASICAuth := false
	if os.Getenv("PEST_ALWAYS_ALLOW_BASIC_AUTH") == "1" {
		s.Log.Infof("Allowing BASIC authentication for all requests (not just logins)")
		alwaysAllowBASICAuth = true
	}

	// protected creates an HTTP handler that is accessible only with authentication
	protected := func(method, route string, handle authenticatedHandler) {
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			cred := s.auth.AuthenticateRequest(w, r, alwaysAllowBASICAuth)
			if cred == nil {
				return
			}
			handle(w, r, params, cred)
		})
	}

	// admin creates an HTTP handler that is accessible only to admin users
	admin := func(method, route string, handle authenticatedHandler) {
		protected(method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
			cred.PanicIfNotAdmin()
			handle(w, r, params, cred)
		})
	}

	// unprotected creates an HTTP handler that is accessible without authentication
	unprotected := func(method, route string, handle httprouter.Handle) {
		www.Handle(s.Log, router, method, route, handle)
	}

	// rateLimited is protected, plus a request rate limit in front of authentication
	detectLimiter := httprate.LimitByIP(detectRequestsPerMinute, time.Minute)
	rateLimited := func(method, route string, limiter func(http.Handler) http.Handler, handle authenticatedHandler) {
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cred := s.auth.AuthenticateRequest(w, r, alwaysAllowBASICAuth)
				if cred == nil {
					return
				}
				handle(w, r, params, cred)
			})).ServeHTTP(w, r)
		})
	}

	unprotected("GET", "/api/ping", s.httpSystemPing)
	protected("GET", "/api/system/info", s.httpSystemInfo)
	admin("POST", "/api/system/shutdown", s.httpSystemShutdown)

	unprotected("POST", "/api/auth/login", s.httpAuthLogin)
	protected("GET", "/api/auth/whoami", s.httpAuthWhoAmI)
	protected("POST", "/api/auth/logout", s.httpAuthLogout)
	protected("POST", "/api/auth/setPassword/:userid", s.httpAuthSetPassword)
	admin("POST", "/api/auth/createUser", s.httpAuthCreateUser)
	admin("GET", "/api/auth/users", s.httpAuthListUsers)

	rateLimited("POST", "/api/detect", detectLimiter, s.detect.HttpDetect)
	protected("GET", "/api/detect/recent", s.detect.HttpRecent)
	protected("GET", "/api/detections", s.detect.HttpList)
	protected("GET", "/api/detections/:id/image", s.detect.HttpImage)
	unprotected("GET", "/api/ws/detections", s.detect.HttpFeed)

	protected("GET", "/api/recommend/:pest", s.recommend.HttpRecommend)
	protected("GET", "/api/pests", s.recommend.HttpAllPests)
	admin("POST", "/api/pesticides", s.recommend.HttpAddPesticide)
	admin("POST", "/api/pesticides/import", s.recommend.HttpImport)

	s.httpRouter = router
	return nil
}
