package server

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cms/internal/app"
	"cms/internal/auth"
	"cms/internal/db"
	"cms/internal/metrics"
	"cms/internal/session"
	"cms/internal/web"
)

const siteRoot = "https://cms.example.com/"

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, db.SQLite))

	pages, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	tpls, err := LoadTemplates(pages)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	return &app.App{
		Config:    app.Config{SiteRoot: siteRoot},
		Users:     auth.NewUsers(conn, db.SQLite),
		Sessions:  session.NewManager(session.NewSQLStore(conn, db.SQLite), session.Options{CookieName: "cms_session", TTL: time.Hour}),
		Templates: tpls,
		Log:       log,
		Metrics:   metrics.New(prometheus.NewRegistry()),
	}
}

// newClient returns a client that keeps cookies and does not follow
// redirects, so tests can assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) *http.Response {
	t.Helper()
	res, err := c.PostForm(u, form)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func get(t *testing.T, c *http.Client, u string) *http.Response {
	t.Helper()
	res, err := c.Get(u)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestLoadTemplates(t *testing.T) {
	pages, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	tpls, err := LoadTemplates(pages)
	require.NoError(t, err)

	for _, name := range []string{"index.html", "admin.html", "login.html", "register.html", "404.html", "500.html"} {
		assert.Contains(t, tpls, name)
	}
	assert.NotContains(t, tpls, "layout.html")
}

func TestLoginLogoutFlow(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()
	c := newClient(t)

	res := postForm(t, c, ts.URL+"/register", url.Values{
		"email":    {"alice@example.com"},
		"username": {"alice"},
		"password": {"correct horse"},
	})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))

	// anonymous visitors are bounced from the dashboard
	res = get(t, c, ts.URL+"/admin")
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))

	res = postForm(t, c, ts.URL+"/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"correct horse"},
	})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, siteRoot, res.Header.Get("Location"))

	res = get(t, c, ts.URL+"/admin")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Signed in as alice")

	res = postForm(t, c, ts.URL+"/logout", nil)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, siteRoot, res.Header.Get("Location"))

	res = get(t, c, ts.URL+"/admin")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	res = get(t, c, ts.URL+"/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "browsing anonymously")
}

func TestLoginInvalidCredentials(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()

	res := postForm(t, newClient(t), ts.URL+"/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever1"},
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body(t, res), "invalid credentials")
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()
	c := newClient(t)

	res := postForm(t, c, ts.URL+"/register", url.Values{
		"email":    {"not-an-email"},
		"username": {"alice"},
		"password": {"correct horse"},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body(t, res), "invalid email")

	form := url.Values{
		"email":    {"alice@example.com"},
		"username": {"alice"},
		"password": {"correct horse"},
	}
	res = postForm(t, c, ts.URL+"/register", form)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	res = postForm(t, c, ts.URL+"/register", form)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestSessionCookieIssued(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()

	res := get(t, newClient(t), ts.URL+"/")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var found bool
	for _, c := range res.Cookies() {
		if c.Name == "cms_session" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "expected a session cookie")
}

func TestNotFoundPage(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()

	res := get(t, newClient(t), ts.URL+"/no/such/page")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body(t, res), "Not found")
}

func TestHealthzAndMetrics(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()
	c := newClient(t)

	res := get(t, c, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	get(t, c, ts.URL+"/logout")
	res = get(t, c, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	b := body(t, res)
	assert.True(t, strings.Contains(b, `cms_logouts_total{result="ok"} 1`), b)
}

func TestStaticFiles(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(Router(a))
	defer ts.Close()

	res := get(t, newClient(t), ts.URL+"/static/site.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestWithCustomErrorsRecoversPanic(t *testing.T) {
	a := newTestApp(t)
	h := WithCustomErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), a)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error")
}
