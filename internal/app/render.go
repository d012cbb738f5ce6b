package app

import "net/http"

/*
render writes common headers and executes the named template.
*/
func (a *App) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	/* Helpful in dev to avoid stale pages */
	w.Header().Set("Cache-Control", "no-store")
	tpl, ok := a.Templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := tpl.ExecuteTemplate(w, name, data); err != nil {
		a.Log.WithError(err).WithField("template", name).Error("template error")
	}
}

/*
renderError shows the error page with the given status. It falls back to a
plain text body when the page is missing.
*/
func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	page := "500.html"
	if status == http.StatusNotFound {
		page = "404.html"
	}
	if _, ok := a.Templates[page]; !ok {
		http.Error(w, msg, status)
		return
	}
	data := a.TemplateData(r)
	data["Status"] = status
	data["Message"] = msg
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := a.Templates[page].ExecuteTemplate(w, page, data); err != nil {
		a.Log.WithError(err).WithField("template", page).Error("template error")
	}
}

// TemplateData builds the common template data: the logged-in user and the
// site root. Handlers add their own fields to the returned map.
func (a *App) TemplateData(r *http.Request) map[string]any {
	u, logged := a.CurrentUser(r)
	data := map[string]any{
		"LoggedIn": logged,
		"SiteRoot": a.Config.SiteRoot,
	}
	if logged {
		data["UserID"] = u.ID
		data["Username"] = u.Username
	}
	return data
}
