package app

import (
	"html/template"

	"github.com/sirupsen/logrus"

	"cms/internal/auth"
	"cms/internal/metrics"
	"cms/internal/session"
)

// Config is the part of the site configuration the handlers need. It is
// handed to the App at construction instead of being read from globals.
type Config struct {
	// SiteRoot is the absolute base URL of the deployed site.
	SiteRoot string
}

/*
App bundles shared resources like the user store, the session manager and
the template set. Handlers are methods on App so they can work with those
shared pieces.
*/
type App struct {
	Config    Config
	Users     *auth.Users
	Sessions  *session.Manager
	Templates map[string]*template.Template
	Log       logrus.FieldLogger
	Metrics   *metrics.Metrics
}
