package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Recovery - middleware для восстановления после паники.
// Паника логируется через общий логгер, а не в stderr фреймворка.
func Recovery(logger *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error("Panic recovered in handler",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.Any("panic", e))
		},
	})
}
