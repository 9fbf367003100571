package authcore

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestWriteTokenCookies(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rec := httptest.NewRecorder()
	svc.WriteTokenCookies(rec, &TokenPair{AccessToken: "acc", RefreshToken: "ref"})

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[svc.config.Cookie.AccessName]
	if access == nil || access.Value != "acc" {
		t.Fatalf("access cookie missing or wrong: %+v", access)
	}
	refresh := byName[svc.config.Cookie.RefreshName]
	if refresh == nil || refresh.Value != "ref" {
		t.Fatalf("refresh cookie missing or wrong: %+v", refresh)
	}

	for _, c := range cookies {
		if !c.HttpOnly {
			t.Errorf("cookie %s must be HttpOnly", c.Name)
		}
		if c.MaxAge <= 0 {
			t.Errorf("cookie %s MaxAge = %d, want > 0", c.Name, c.MaxAge)
		}
	}
	if access.MaxAge >= refresh.MaxAge {
		t.Error("access cookie must expire before refresh cookie")
	}
}

func TestClearTokenCookies(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rec := httptest.NewRecorder()
	svc.ClearTokenCookies(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge != -1 {
			t.Errorf("cookie %s MaxAge = %d, want -1", c.Name, c.MaxAge)
		}
		if c.Value != "" {
			t.Errorf("cookie %s value = %q, want empty", c.Name, c.Value)
		}
	}
}

func TestRefreshTokenFromRequest(t *testing.T) {
	svc, _ := newTestService(t, nil)
	name := svc.config.Cookie.RefreshName

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		r.AddCookie(&http.Cookie{Name: name, Value: "from-cookie"})
		if got := svc.RefreshTokenFromRequest(r); got != "from-cookie" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("form fallback", func(t *testing.T) {
		form := url.Values{name: {"from-form"}}
		r := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if got := svc.RefreshTokenFromRequest(r); got != "from-form" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("cookie wins over form", func(t *testing.T) {
		form := url.Values{name: {"from-form"}}
		r := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.AddCookie(&http.Cookie{Name: name, Value: "from-cookie"})
		if got := svc.RefreshTokenFromRequest(r); got != "from-cookie" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		if got := svc.RefreshTokenFromRequest(r); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})
}

func TestAccessTokenFromRequest(t *testing.T) {
	svc, _ := newTestService(t, nil)
	name := svc.config.Cookie.AccessName

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		if got := svc.AccessTokenFromRequest(r); got != "from-header" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.AddCookie(&http.Cookie{Name: name, Value: "from-cookie"})
		if got := svc.AccessTokenFromRequest(r); got != "from-cookie" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		if got := svc.AccessTokenFromRequest(r); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})
}
