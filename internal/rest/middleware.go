package rest

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// UserAgentFilter rejects requests without a user agent or whose user agent
// contains any of bots (case-insensitive).
func UserAgentFilter(bots []string) fiber.Handler {
	needles := make([]string, 0, len(bots))
	for _, b := range bots {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			needles = append(needles, b)
		}
	}

	return func(c *fiber.Ctx) error {
		ua := strings.ToLower(c.Get(fiber.HeaderUserAgent))
		if ua == "" {
			return c.Status(fiber.StatusForbidden).JSON(messageResponse{Message: "Forbidden: User agent not detected"})
		}
		for _, bot := range needles {
			if strings.Contains(ua, bot) {
				return c.Status(fiber.StatusForbidden).JSON(messageResponse{Message: "Forbidden: Bot detected"})
			}
		}
		return c.Next()
	}
}

// IPFilter only lets listed client addresses through.
func IPFilter(allowed []string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, ip := range allowed {
		set[strings.TrimSpace(ip)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(messageResponse{Message: "Forbidden: IP not detected"})
		}
		if _, ok := set[ip]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(messageResponse{Message: "Forbidden: IP not allowed"})
		}
		return c.Next()
	}
}

// OriginMatcher accepts origins whose hostname ends with suffix.
func OriginMatcher(suffix string) func(origin string) bool {
	return func(origin string) bool {
		if suffix == "" {
			return false
		}
		u, err := url.Parse(origin)
		if err != nil || u.Hostname() == "" {
			return false
		}
		return strings.HasSuffix(u.Hostname(), suffix)
	}
}

// CORS allows the listed origins plus any origin under domainSuffix, with credentials.
func CORS(origins []string, domainSuffix string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowOriginsFunc: OriginMatcher(domainSuffix),
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions}, ","),
		AllowCredentials: true,
	})
}
