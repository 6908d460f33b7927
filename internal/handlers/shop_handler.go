package handlers

import (
	"strconv"

	"vitrina/internal/middleware"
	"vitrina/internal/models"
	"vitrina/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ShopHandler serves the storefront: product pages, the cart and the payment redirect.
// Every route expects middleware.CurrentUser to have run.
type ShopHandler struct {
	catalog   *services.CatalogService
	cart      *services.CartService
	payment   *services.PaymentService
	uploadDir string
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(catalog *services.CatalogService, cart *services.CartService, payment *services.PaymentService, uploadDir string) *ShopHandler {
	return &ShopHandler{
		catalog:   catalog,
		cart:      cart,
		payment:   payment,
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the storefront routes on the shop group.
func (h *ShopHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/contact", h.HandleContact)
	router.Get("/shop_cart", h.HandleCart)
	router.Get("/payment", h.HandlePayment)
	router.Get("/add/:id<int>", h.HandleAdd)
	router.Get("/change/:id<int>", h.HandleChange)
	router.Get("/delete/:id<int>", h.HandleRemove)
	router.Get("/:id<int>", h.HandleItem)
	router.Static("/uploads", h.uploadDir)
}

func currentUser(c *fiber.Ctx) (uint, error) {
	id := middleware.UserID(c)
	if id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unknown user")
	}
	return id, nil
}

// cartBadge is the item count shown in the header: null for an empty cart.
func (h *ShopHandler) cartBadge(c *fiber.Ctx, userID uint) (*int, error) {
	total, ok, err := h.cart.TotalQuantity(c.UserContext(), userID)
	if err != nil || !ok {
		return nil, err
	}
	return &total, nil
}

// HandleIndex serves the shop front: products, promoted products, categories and
// the cart badge.
func (h *ShopHandler) HandleIndex(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	front, err := h.catalog.Storefront(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	badge, err := h.cartBadge(c, userID)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{
		"product":          front.Products,
		"action":           front.Promoted,
		"category":         front.Categories,
		"cart_items_count": badge,
	})
}

// HandleItem serves one product page.
func (h *ShopHandler) HandleItem(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	badge, err := h.cartBadge(c, userID)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{
		"product":          detail.Product,
		"category":         detail.Category,
		"creator":          detail.Creator,
		"cart_items_count": badge,
	})
}

// HandleAdd adds add_quantity items of the product to the cart.
func (h *ShopHandler) HandleAdd(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.cart.Add(c.UserContext(), userID, id, c.QueryInt("add_quantity", 0)); err != nil {
		return respondError(c, err, nil)
	}
	return h.respondBadge(c, userID)
}

// HandleChange moves the quantity of an existing line by q.
func (h *ShopHandler) HandleChange(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.cart.ChangeQuantity(c.UserContext(), userID, id, c.QueryInt("q", 0)); err != nil {
		return respondError(c, err, nil)
	}
	return h.respondBadge(c, userID)
}

// HandleRemove drops the product from the cart. An absent line is not an error.
func (h *ShopHandler) HandleRemove(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.cart.Remove(c.UserContext(), userID, id); err != nil {
		return respondError(c, err, nil)
	}
	return h.respondBadge(c, userID)
}

func (h *ShopHandler) respondBadge(c *fiber.Ctx, userID uint) error {
	badge, err := h.cartBadge(c, userID)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"cart_items_count": badge})
}

// HandleCart lists the cart lines with their totals.
func (h *ShopHandler) HandleCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	summary, err := h.cart.Summary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(summary)
}

// HandlePayment redirects to the payment page for amount. A zero amount renders the
// cart instead.
func (h *ShopHandler) HandlePayment(c *fiber.Ctx) error {
	amount, err := strconv.ParseFloat(c.Query("amount", "0"), 64)
	if err != nil {
		return respondError(c, models.NewValidationError("amount", "must be a number"), nil)
	}

	url, skipped, err := h.payment.Checkout(c.UserContext(), amount)
	if err != nil {
		return respondError(c, err, nil)
	}
	if skipped {
		return h.HandleCart(c)
	}
	return c.Redirect(url, fiber.StatusFound)
}

// HandleContact serves the static contact page.
func (h *ShopHandler) HandleContact(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "contact"})
}
