// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// contentSecurityPolicy allows only same-origin assets. Forms post back to
// the same origin.
const contentSecurityPolicy = "default-src 'self'; form-action 'self'; frame-ancestors 'self'; base-uri 'self'"

// SecureHeaders adds security-related HTTP headers to every response.
// HSTS is only sent over TLS and never in development.
func SecureHeaders(dev bool) func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		STSSeconds:              63072000,
		STSIncludeSubdomains:    true,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		CustomBrowserXssValue:   "0",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		ContentSecurityPolicy:   contentSecurityPolicy,
		PermissionsPolicy:       "geolocation=(), microphone=(), camera=(), interest-cohort=()",
		IsDevelopment:           dev,
	})
	return sec.Handler
}
