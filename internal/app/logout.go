package app

// This file implements user logout. Logging out strips the authenticated
// user from the session and persists the reduced session before sending
// the client back to the site root. Other session attributes survive.

import (
	"net/http"

	"cms/internal/session"
)

// Logout removes the user attribute from the request's session and
// redirects to the configured site root. The Result is only produced after
// the session store has acknowledged the write. Lookup or persistence
// failures are returned and no redirect is issued.
func (a *App) Logout(r *http.Request) (Result, error) {
	sess, err := a.Sessions.Get(r)
	if err != nil {
		a.Metrics.Logout("error")
		return Result{}, err
	}

	sess.Delete(session.UserKey)

	if err := a.Sessions.Edit(r, sess); err != nil {
		a.Metrics.Logout("error")
		return Result{}, err
	}

	a.Metrics.Logout("ok")
	return Result{Redirect: a.Config.SiteRoot}, nil
}

// HandleLogout serves Logout over HTTP. It accepts both GET and POST for
// convenience.
func (a *App) HandleLogout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
		a.Respond(a.Logout)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
