package app

// This file implements the public home page and the admin dashboard. The
// home page greets visitors and tells logged-in users who they are; the
// dashboard is only reachable behind RequireAuth.

import "net/http"

// HandleIndex renders the home page.
func (a *App) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := a.TemplateData(r)
	data["View"] = "index"
	a.render(w, "index.html", data)
}

// HandleAdmin renders the admin dashboard for the logged-in user.
func (a *App) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	data := a.TemplateData(r)
	data["View"] = "admin"
	a.render(w, "admin.html", data)
}

// HandleNotFound renders the 404 page.
func (a *App) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusNotFound, "Page not found.")
}
