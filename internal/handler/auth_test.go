// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package handler

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func postLogin(t *testing.T, client *http.Client, baseURL, email, password string) *http.Response {
	t.Helper()

	resp, err := client.PostForm(baseURL+LoginPath, url.Values{
		"email":    {email},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("posting login: %v", err)
	}
	return resp
}

func TestLogin_Success(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp := postLogin(t, client, srv.URL, testAdminEmail, testAdminPassword)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != AdminPath {
		t.Errorf("Location = %q, want %q", got, AdminPath)
	}

	// Session cookie now grants access to the report
	adminResp, err := client.Get(srv.URL + AdminPath)
	if err != nil {
		t.Fatalf("fetching admin page: %v", err)
	}
	defer adminResp.Body.Close()
	if adminResp.StatusCode != http.StatusOK {
		t.Errorf("admin page status = %d, want 200", adminResp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp := postLogin(t, client, srv.URL, testAdminEmail, "wrong-password")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	want := LoginPath + "?error=" + url.QueryEscape("Invalid email or password")
	if got := resp.Header.Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}

	// Still anonymous
	adminResp, err := client.Get(srv.URL + AdminPath)
	if err != nil {
		t.Fatalf("fetching admin page: %v", err)
	}
	defer adminResp.Body.Close()
	if adminResp.StatusCode != http.StatusSeeOther {
		t.Errorf("admin page status = %d, want redirect to login", adminResp.StatusCode)
	}
}

func TestLogin_WrongEmailSameError(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp := postLogin(t, client, srv.URL, "someone@else.example", testAdminPassword)
	defer resp.Body.Close()

	// Identical redirect as a wrong password: no account enumeration
	want := LoginPath + "?error=" + url.QueryEscape("Invalid email or password")
	if got := resp.Header.Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestLoginForm_EscapesErrorParam(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp, err := client.Get(srv.URL + LoginPath + "?error=" + url.QueryEscape(`<script>alert(1)</script>`))
	if err != nil {
		t.Fatalf("fetching login form: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	if strings.Contains(string(body), "<script>alert(1)</script>") {
		t.Error("error parameter reflected as raw markup")
	}
	if !strings.Contains(string(body), "&lt;script&gt;") {
		t.Error("error parameter should be rendered escaped")
	}
}

func TestLoginForm_RedirectsWhenAuthenticated(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp := postLogin(t, client, srv.URL, testAdminEmail, testAdminPassword)
	resp.Body.Close()

	formResp, err := client.Get(srv.URL + LoginPath)
	if err != nil {
		t.Fatalf("fetching login form: %v", err)
	}
	defer formResp.Body.Close()

	if formResp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", formResp.StatusCode)
	}
	if got := formResp.Header.Get("Location"); got != AdminPath {
		t.Errorf("Location = %q, want %q", got, AdminPath)
	}
}

func TestLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	resp := postLogin(t, client, srv.URL, testAdminEmail, testAdminPassword)
	resp.Body.Close()

	logoutResp, err := client.Get(srv.URL + LogoutPath)
	if err != nil {
		t.Fatalf("logging out: %v", err)
	}
	defer logoutResp.Body.Close()
	if got := logoutResp.Header.Get("Location"); got != LoginPath {
		t.Errorf("Location = %q, want %q", got, LoginPath)
	}

	// The old session no longer grants access
	adminResp, err := client.Get(srv.URL + AdminPath)
	if err != nil {
		t.Fatalf("fetching admin page: %v", err)
	}
	defer adminResp.Body.Close()
	if adminResp.StatusCode != http.StatusSeeOther {
		t.Errorf("admin page status = %d, want redirect after logout", adminResp.StatusCode)
	}
}

func TestLogin_SessionCookieChanges(t *testing.T) {
	srv, _ := newTestServer(t)
	client := testClient(t)

	// Visit the login form first so a pre-login session cookie exists
	formResp, err := client.Get(srv.URL + LoginPath)
	if err != nil {
		t.Fatalf("fetching login form: %v", err)
	}
	formResp.Body.Close()

	base, _ := url.Parse(srv.URL)
	preCookie := sessionCookie(client, base)

	resp := postLogin(t, client, srv.URL, testAdminEmail, testAdminPassword)
	resp.Body.Close()

	postCookie := sessionCookie(client, base)
	if postCookie == "" {
		t.Fatal("no session cookie after login")
	}
	if preCookie != "" && preCookie == postCookie {
		t.Error("session token should change across login (fixation defense)")
	}
}

func sessionCookie(client *http.Client, u *url.URL) string {
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "sessionId" {
			return c.Value
		}
	}
	return ""
}
