package server

import (
	"net/http"
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) httpAuthLogin(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	s.auth.Login(w, r)
}

func (s *Server) httpAuthLogout(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	s.auth.Logout(w, r)
}

func (s *Server) httpAuthWhoAmI(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	www.SendJSON(w, cred.User)
}

func (s *Server) httpAuthSetPassword(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	userID := www.ParseID(params.ByName("userid"))
	if userID == 0 {
		www.PanicBadRequestf("Invalid user ID")
	}
	if userID != cred.UserID && !cred.IsAdmin() {
		www.PanicForbiddenf("You can only set your own password")
	}
	password := strings.TrimSpace(www.QueryValue(r, "password"))
	if err := auth.IsPasswordOK(password); err != nil {
		www.PanicBadRequestf("%v", err)
	}
	www.Check(s.auth.SetPassword(userID, password))

	// Erase all login sessions except for the one that made this request
	if userID == cred.UserID {
		s.auth.EraseAllSessionsExceptCallingSession(cred)
	}

	www.SendOK(w)
}

func (s *Server) httpAuthCreateUser(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	type request struct {
		Username    string `json:"username"`
		Name        string `json:"name"`
		Password    string `json:"password"`
		Permissions string `json:"permissions"`
	}
	req := request{}
	www.ReadJSON(w, r, &req, 1024*1024)
	user, err := s.auth.CreateUser(req.Username, req.Name, req.Password, req.Permissions)
	if err != nil {
		www.PanicBadRequestf("%v", err)
	}
	www.SendJSONID(w, user.ID)
}

func (s *Server) httpAuthListUsers(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	users, err := s.auth.AllUsers()
	www.Check(err)
	www.SendJSON(w, users)
}
