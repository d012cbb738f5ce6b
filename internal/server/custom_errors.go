package server

import (
	"net/http"

	"cms/internal/app"
)

/*
WithCustomErrors wraps next so a panicking handler is logged and answered
with the friendly 500 page instead of a dropped connection. Not-found pages
are handled by the router.

Example:

	handler := server.WithCustomErrors(router, a)
	http.ListenAndServe(":8080", handler)
*/
func WithCustomErrors(next http.Handler, a *app.App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				a.Log.WithField("panic", err).WithField("path", r.URL.Path).Error("handler panicked")
				if rw.wroteHeader {
					return
				}
				writePage(w, r, a, "500.html", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

func writePage(w http.ResponseWriter, r *http.Request, a *app.App, page string, status int) {
	tpl, ok := a.Templates[page]
	if !ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := tpl.ExecuteTemplate(w, page, a.TemplateData(r)); err != nil {
		a.Log.WithError(err).WithField("template", page).Error("template error")
	}
}

/*
responseWriter records whether the header went out so a panic after the
first write does not try to send a second status.
*/
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
