package handlers

import (
	"vitrina/internal/repositories"
	"vitrina/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Catalog views.
const (
	ViewCards = "cards"
	ViewRows  = "rows"
)

// CatalogHandler serves the catalog manager: listings, detail, product editing,
// export and uploaded covers.
type CatalogHandler struct {
	catalog      *services.CatalogService
	products     *services.ProductService
	uploadDir    string
	cardPageSize int
	rowPageSize  int
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, products *services.ProductService, uploadDir string, cardPageSize, rowPageSize int) *CatalogHandler {
	return &CatalogHandler{
		catalog:      catalog,
		products:     products,
		uploadDir:    uploadDir,
		cardPageSize: cardPageSize,
		rowPageSize:  rowPageSize,
	}
}

// RegisterRoutes registers the catalog routes on the catalog group.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList(ViewCards))
	router.Get("/rows", h.HandleList(ViewRows))
	router.Get("/export", h.HandleExport)
	router.Post("/create", h.HandleCreate)
	router.Get("/:id<int>", h.HandleDetail)
	router.Post("/:id<int>/edit", h.HandleUpdate)
	router.Post("/:id<int>/delete", h.HandleDelete)
	router.Static("/uploads", h.uploadDir)
}

// listParams are the navigation query parameters shared by the listings and the
// detail page.
type listParams struct {
	Page    int    `json:"page"`
	Flt     string `json:"flt"`
	Creator uint   `json:"creator"`
	Rtn     int    `json:"rtn"`
}

// parseListParams reads page, flt, creator and rtn. Malformed numbers fall back to
// their defaults.
func parseListParams(c *fiber.Ctx) listParams {
	p := listParams{
		Page: c.QueryInt("page", 1),
		Flt:  c.Query("flt"),
		Rtn:  c.QueryInt("rtn", 0),
	}
	if creator := c.QueryInt("creator", 0); creator > 0 {
		p.Creator = uint(creator)
	}
	return p
}

func (p listParams) filter() repositories.ProductFilter {
	return repositories.ProductFilter{Category: p.Flt, CreatorID: p.Creator, MinRating: p.Rtn}
}

// HandleList returns one page of the filtered catalog in the given view.
func (h *CatalogHandler) HandleList(view string) fiber.Handler {
	pageSize := h.cardPageSize
	if view == ViewRows {
		pageSize = h.rowPageSize
	}
	return func(c *fiber.Ctx) error {
		params := parseListParams(c)
		page, err := h.catalog.List(c.UserContext(), params.filter(), params.Page, pageSize)
		if err != nil {
			return respondError(c, err, nil)
		}
		return c.JSON(fiber.Map{
			"view":       view,
			"products":   page.Products,
			"categories": page.Categories,
			"creators":   page.Creators,
			"filter":     params,
		})
	}
}

// HandleDetail returns a product with its category and creator, and the parameters
// needed to go back to the listing it was opened from.
func (h *CatalogHandler) HandleDetail(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}

	view := c.Query("view", ViewCards)
	if view != ViewRows {
		view = ViewCards
	}
	return c.JSON(fiber.Map{
		"product":  detail.Product,
		"category": detail.Category,
		"creator":  detail.Creator,
		"back": fiber.Map{
			"view":   view,
			"params": parseListParams(c),
		},
	})
}

// HandleCreate stores a product from a (multipart) form with an optional cover file.
func (h *CatalogHandler) HandleCreate(c *fiber.Ctx) error {
	in, cleanup, err := parseProductInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.products.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, in)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate rewrites a product. On a name collision the submitted input is
// returned with the conflict.
func (h *CatalogHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	in, cleanup, err := parseProductInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.products.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err, in)
	}
	return c.JSON(product)
}

// HandleDelete removes a product and its cart lines.
func (h *CatalogHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// HandleExport returns every product as a downloadable JSON document.
func (h *CatalogHandler) HandleExport(c *fiber.Ctx) error {
	products, err := h.catalog.Export(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Attachment("products.json")
	return c.JSON(products)
}

// parseProductInput binds the form fields and opens the optional cover file. The
// returned cleanup closes the file.
func parseProductInput(c *fiber.Ctx) (*services.ProductInput, func(), error) {
	in := new(services.ProductInput)
	if err := c.BodyParser(in); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	cleanup := func() {}
	fh, err := c.FormFile("cover")
	if err != nil {
		// No multipart body or no file: keep the default/current cover.
		return in, cleanup, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Unreadable cover file")
	}
	in.Cover = &services.ImageUpload{Filename: fh.Filename, Content: f}
	return in, func() { f.Close() }, nil
}
