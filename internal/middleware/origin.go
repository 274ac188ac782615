package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/response"
)

// OriginGuard restricts the public submission route to browsers sent by the
// configured careers site. The Origin header wins when both are present;
// Referer is the fallback for browsers that omit Origin on form posts.
// Outside production the guard passes everything so local tooling works.
func OriginGuard(env, publicURL string) gin.HandlerFunc {
	allowedScheme, allowedHost := splitOrigin(publicURL)

	return func(c *gin.Context) {
		if !strings.EqualFold(env, "production") {
			c.Next()
			return
		}

		candidate := c.GetHeader("Origin")
		if candidate == "" {
			candidate = c.GetHeader("Referer")
		}
		if candidate == "" {
			response.Error(c, appErrors.ErrOriginMissing)
			c.Abort()
			return
		}

		scheme, host := splitOrigin(candidate)
		if scheme != allowedScheme || host == "" || !strings.EqualFold(host, allowedHost) {
			response.Error(c, appErrors.ErrOriginMismatch)
			c.Abort()
			return
		}

		c.Next()
	}
}

// splitOrigin extracts the scheme and host from a URL or origin value.
// Paths, query strings and fragments in a Referer are ignored.
func splitOrigin(raw string) (scheme, host string) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(u.Scheme), u.Host
}
