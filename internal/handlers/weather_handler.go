package handlers

import (
	"vitrina/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WeatherHandler serves the weather dashboard.
type WeatherHandler struct {
	service *services.WeatherService
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{service: service}
}

// RegisterRoutes registers the dashboard routes on the weather group.
func (h *WeatherHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleDashboard)
	router.Get("/info", h.HandleInfo)
	router.Post("/add_city", h.HandleAddCity)
	router.Post("/del_city/:id<int>", h.HandleDeleteCity)
}

// HandleDashboard lists the weather of every city that could be looked up.
func (h *WeatherHandler) HandleDashboard(c *fiber.Ctx) error {
	info, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"all_info": info})
}

type cityForm struct {
	Name string `form:"name" json:"name"`
}

// HandleAddCity stores the city from the form.
func (h *WeatherHandler) HandleAddCity(c *fiber.Ctx) error {
	var form cityForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	city, err := h.service.AddCity(c.UserContext(), form.Name)
	if err != nil {
		return respondError(c, err, form)
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

// HandleDeleteCity removes a city.
func (h *WeatherHandler) HandleDeleteCity(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCity(c.UserContext(), id); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "City deleted"})
}

// HandleInfo serves the static info page.
func (h *WeatherHandler) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "info"})
}
