package middleware

import (
	"github.com/gin-gonic/gin"
)

const ctxRealIP = "real_ip"

// RealIP stores the client address under "real_ip". Forwarding headers
// count only through the engine's trusted proxies or TrustedPlatform
// (see TrustProxies); otherwise the peer address is used.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIP, c.ClientIP())
		c.Next()
	}
}

// TrustProxies restricts which peers may set X-Forwarded-For and friends.
// An empty list trusts nobody. platform "cloudflare" reads
// CF-Connecting-IP; any other non-empty value is used as the header name.
func TrustProxies(engine *gin.Engine, proxies []string, platform string) error {
	switch platform {
	case "":
	case "cloudflare":
		engine.TrustedPlatform = gin.PlatformCloudflare
	default:
		engine.TrustedPlatform = platform
	}
	return engine.SetTrustedProxies(proxies)
}

// ClientIP returns the address recorded by RealIP, falling back to Gin's.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ctxRealIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
