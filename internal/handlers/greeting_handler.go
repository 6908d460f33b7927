package handlers

import "github.com/gofiber/fiber/v2"

// RegisterGreeting mounts the placeholder greeting page.
func RegisterGreeting(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello World!")
	})
}
