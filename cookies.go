package authcore

import "net/http"

// WriteTokenCookies sets the access and refresh token cookies on w using the
// configured names and attributes. Both cookies are always HttpOnly; their
// max ages follow the configured token TTLs.
func (s *Service) WriteTokenCookies(w http.ResponseWriter, pair *TokenPair) {
	if s == nil || pair == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Cookie.AccessName,
		Value:    pair.AccessToken,
		Path:     s.config.Cookie.Path,
		Domain:   s.config.Cookie.Domain,
		MaxAge:   int(s.config.Token.AccessTTL.Seconds()),
		Secure:   s.config.Cookie.Secure,
		HttpOnly: true,
		SameSite: s.config.Cookie.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Cookie.RefreshName,
		Value:    pair.RefreshToken,
		Path:     s.config.Cookie.Path,
		Domain:   s.config.Cookie.Domain,
		MaxAge:   int(s.config.Token.RefreshTTL.Seconds()),
		Secure:   s.config.Cookie.Secure,
		HttpOnly: true,
		SameSite: s.config.Cookie.SameSite,
	})
}

// ClearTokenCookies expires both token cookies on w. Used after logout.
func (s *Service) ClearTokenCookies(w http.ResponseWriter) {
	if s == nil {
		return
	}

	for _, name := range []string{s.config.Cookie.AccessName, s.config.Cookie.RefreshName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     s.config.Cookie.Path,
			Domain:   s.config.Cookie.Domain,
			MaxAge:   -1,
			Secure:   s.config.Cookie.Secure,
			HttpOnly: true,
			SameSite: s.config.Cookie.SameSite,
		})
	}
}

// RefreshTokenFromRequest extracts the refresh token from r, preferring the
// configured cookie and falling back to the form value of the same name.
// Returns "" when neither is present.
func (s *Service) RefreshTokenFromRequest(r *http.Request) string {
	if s == nil || r == nil {
		return ""
	}

	if c, err := r.Cookie(s.config.Cookie.RefreshName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.FormValue(s.config.Cookie.RefreshName)
}

// AccessTokenFromRequest extracts the access token from r, preferring a
// bearer Authorization header and falling back to the configured cookie.
func (s *Service) AccessTokenFromRequest(r *http.Request) string {
	if s == nil || r == nil {
		return ""
	}

	const bearerPrefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(bearerPrefix) && h[:len(bearerPrefix)] == bearerPrefix {
		return h[len(bearerPrefix):]
	}
	if c, err := r.Cookie(s.config.Cookie.AccessName); err == nil {
		return c.Value
	}
	return ""
}
