package app

// Handlers that only decide where to send the client return a Result
// instead of writing to the ResponseWriter themselves. Controller turns
// that descriptor into the HTTP response.

import "net/http"

// Result describes the response a Controller wants. Redirect is the
// absolute URL the client should go to.
type Result struct {
	Redirect string
}

// Controller handles a request and describes the response.
type Controller func(r *http.Request) (Result, error)

// Respond adapts c into an http.HandlerFunc. A Result with a Redirect
// becomes a 303 See Other. An error is logged and rendered as the 500 page;
// nothing is redirected in that case.
func (a *App) Respond(c Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := c(r)
		if err != nil {
			a.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
			a.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		if res.Redirect == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
	}
}
