package serverutils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiterMiddleware enforces a fixed-window per-IP request cap backed by
// redis. When redis is unreachable the limiter fails open: availability of
// the API wins over strictness of the limit.
func RateLimiterMiddleware(rdb *redis.Client, maxPerMinute int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", ctx.IP(), time.Now().Format("200601021504"))

		count, err := rdb.Incr(ctx.Context(), key).Result()
		if err != nil {
			return ctx.Next()
		}
		if count == 1 {
			rdb.Expire(ctx.Context(), key, time.Minute)
		}

		if count > int64(maxPerMinute) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				ErrorResponse("rate limit exceeded, try again in a minute"))
		}

		return ctx.Next()
	}
}
