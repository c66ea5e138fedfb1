// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package handler

import (
	"database/sql"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/primemeridian/site/internal/auth"
	"github.com/primemeridian/site/internal/middleware"
	"github.com/primemeridian/site/internal/store"
	"github.com/primemeridian/site/web"
)

const (
	testAdminEmail    = "admin@primemeridian.example"
	testAdminPassword = "correct horse battery staple"
)

// testSessionDB creates an in-memory SQLite database with the sessions schema.
func testSessionDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	return db
}

// testApp wires the full route surface with a real file store and session
// manager, minus rate limiters and CSRF, which have their own tests.
type testApp struct {
	router *chi.Mux
	store  *store.FileStore
	db     *sql.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testSessionDB(t)

	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Cookie.Name = "sessionId"
	sm.Cookie.HttpOnly = true

	hash, err := auth.HashPassword(testAdminPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	gate := auth.NewGate(testAdminEmail, hash, sm)

	fileStore, err := store.NewFileStore(filepath.Join(t.TempDir(), "submissions.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	contact := NewContactHandler(fileStore)
	authH := NewAuthHandler(gate, tmpl)
	adminH := NewAdminHandler(fileStore, tmpl)
	health := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Post("/api/contact", contact.Submit)
	r.Get(LoginPath, authH.LoginForm)
	r.Post(LoginPath, authH.Login)
	r.Get(LogoutPath, authH.Logout)
	r.With(middleware.RequireAuthPage(gate, LoginPath)).Get(AdminPath, adminH.Report)
	r.Get("/health", health.Health)
	r.NotFound(NotFound)

	return &testApp{router: r, store: fileStore, db: db}
}

// testClient returns an HTTP client with a cookie jar that does not follow
// redirects, so tests can assert on Location headers.
func testClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *testApp) {
	t.Helper()

	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)
	return srv, app
}
