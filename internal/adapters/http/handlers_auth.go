package web

import (
	"net/http"

	"courtside/internal/adapters/http/middleware"
	"courtside/internal/application/orchestrators"
)

type accountJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// handleLogin handles POST /api/login
// The token is returned in the body for Bearer clients and set as a cookie for browsers.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{
		AccountStore: s.stores.AccountStore,
		Now:          s.opts.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.svc.Sessions.Create(result.AccountID, result.Email, result.Name, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.opts.Secure)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"account": accountJSON{
			ID:    result.AccountID,
			Email: result.Email,
			Name:  result.Name,
			Role:  result.Role,
		},
	})
}

// handleLogout handles POST /api/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.TokenFromContext(r.Context()); ok {
		s.svc.Sessions.Delete(token)
		if s.svc.Coordinators != nil {
			s.svc.Coordinators.Drop(token)
		}
	}
	middleware.ClearSessionCookie(w, s.opts.Secure)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, accountJSON{
		ID:    sess.AccountID,
		Email: sess.Email,
		Name:  sess.Name,
		Role:  sess.Role,
	})
}

// handleChangePassword handles POST /api/account/password
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: s.stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateAccount handles POST /api/accounts (coach only)
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	}, orchestrators.CreateAccountDeps{
		AccountStore: s.stores.AccountStore,
		GenerateID:   s.opts.GenerateID,
		Now:          s.opts.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountJSON{ID: acct.ID, Email: acct.Email, Name: acct.Name, Role: acct.Role})
}
