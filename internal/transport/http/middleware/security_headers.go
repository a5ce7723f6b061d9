package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

func SecureHeaders(isProd bool) func(http.Handler) http.Handler {
	opts := secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), payment=()",
		ContentSecurityPolicy: "default-src 'self'; base-uri 'self'; form-action 'self'; frame-ancestors 'none'; object-src 'none'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !isProd,
	}
	if isProd {
		opts.STSSeconds = 63072000
		opts.STSIncludeSubdomains = true
		opts.STSPreload = true
	}
	return secure.New(opts).Handler
}
