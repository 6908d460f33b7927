package handlers

import (
	"vitrina/internal/models"
	"vitrina/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TaxonomyHandler serves the category and creator CRUD of the catalog manager.
type TaxonomyHandler struct {
	service *services.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(service *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// RegisterRoutes registers the category and creator routes on the catalog group.
func (h *TaxonomyHandler) RegisterRoutes(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Post("/", h.HandleCreateCategory)
	categories.Post("/:id<int>/edit", h.HandleUpdateCategory)
	categories.Post("/:id<int>/delete", h.HandleDeleteCategory)

	creators := router.Group("/creators")
	creators.Get("/", h.HandleListCreators)
	creators.Post("/", h.HandleCreateCreator)
	creators.Post("/:id<int>/edit", h.HandleUpdateCreator)
	creators.Post("/:id<int>/delete", h.HandleDeleteCreator)
}

// HandleListCategories lists every category.
func (h *TaxonomyHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(categories)
}

// HandleCreateCategory stores a category from the form.
func (h *TaxonomyHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	category.ID = 0
	if err := h.service.CreateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, err, category)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory rewrites a category.
func (h *TaxonomyHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	category.ID = id
	if err := h.service.UpdateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, err, category)
	}
	return c.JSON(category)
}

// HandleDeleteCategory removes a category.
func (h *TaxonomyHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// HandleListCreators lists every creator.
func (h *TaxonomyHandler) HandleListCreators(c *fiber.Ctx) error {
	creators, err := h.service.Creators(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(creators)
}

// HandleCreateCreator stores a creator from the form.
func (h *TaxonomyHandler) HandleCreateCreator(c *fiber.Ctx) error {
	var creator models.Creator
	if err := c.BodyParser(&creator); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	creator.ID = 0
	if err := h.service.CreateCreator(c.UserContext(), &creator); err != nil {
		return respondError(c, err, creator)
	}
	return c.Status(fiber.StatusCreated).JSON(creator)
}

// HandleUpdateCreator rewrites a creator.
func (h *TaxonomyHandler) HandleUpdateCreator(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var creator models.Creator
	if err := c.BodyParser(&creator); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	creator.ID = id
	if err := h.service.UpdateCreator(c.UserContext(), &creator); err != nil {
		return respondError(c, err, creator)
	}
	return c.JSON(creator)
}

// HandleDeleteCreator removes a creator.
func (h *TaxonomyHandler) HandleDeleteCreator(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCreator(c.UserContext(), id); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Creator deleted"})
}
