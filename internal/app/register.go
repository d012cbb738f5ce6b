package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"cms/internal/auth"
)

var validate = validator.New()

type registerForm struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,alphanum,min=3,max=32"`
	Password string `validate:"required,min=8"`
}

/*
HandleRegister shows the registration form or creates a new user when data is posted.
*/
func (a *App) HandleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.render(w, "register.html", map[string]any{"View": "register"})
	case http.MethodPost:
		form := registerForm{
			Email:    strings.TrimSpace(r.FormValue("email")),
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
		}
		if err := validate.Struct(form); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			a.render(w, "register.html", map[string]any{
				"View":  "register",
				"Error": formError(err),
			})
			return
		}
		hash, err := auth.HashPassword(form.Password)
		if err != nil {
			a.renderError(w, r, http.StatusInternalServerError, "failed to register")
			return
		}
		if _, err := a.Users.Create(r.Context(), form.Email, form.Username, hash); err != nil {
			if errors.Is(err, auth.ErrDuplicate) {
				w.WriteHeader(http.StatusConflict)
				a.render(w, "register.html", map[string]any{
					"View":  "register",
					"Error": err.Error(),
				})
				return
			}
			a.Log.WithError(err).Error("creating user")
			a.renderError(w, r, http.StatusInternalServerError, "failed to register")
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// formError turns validation failures into a short message naming the
// first offending field.
func formError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid " + strings.ToLower(verrs[0].Field())
	}
	return "invalid form"
}
