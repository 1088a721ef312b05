package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/juju/loggo/v2"
	"github.com/labstack/echo/v4"

	"carstock/internal/catalog"
	"carstock/internal/imghost"
	"carstock/internal/model"
	"carstock/internal/telegram"
	"carstock/internal/utils"
)

var logger = loggo.GetLogger("carstock.handler")

// defaultProductType is assigned when a create form omits the type.
const defaultProductType = "part"

// dbTimeout bounds a single handler's sequence of database calls.
const dbTimeout = 30 * time.Second

// ProductHandler exposes the catalog CRUD endpoints. Every mutation
// writes through the facade first and then refreshes the messaging
// mirror best-effort.
type ProductHandler struct {
	Catalog *catalog.Facade
	Images  *imghost.Client
	Mirror  *telegram.Mirror
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(cat *catalog.Facade, images *imghost.Client, mirror *telegram.Mirror) *ProductHandler {
	return &ProductHandler{Catalog: cat, Images: images, Mirror: mirror}
}

// List returns the filtered, sorted catalog.
func (h *ProductHandler) List(c echo.Context) error {
	f := catalog.Filter{
		Search:      c.QueryParam("search"),
		CarName:     c.QueryParam("car_name"),
		ProductType: c.QueryParam("product_type"),
		Status:      c.QueryParam("status"),
		SortBy:      c.QueryParam("sort_by"),
		Order:       c.QueryParam("order"),
	}
	var err error
	if f.MinPrice, err = optionalPrice(c.QueryParam("min_price")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
	}
	if f.MaxPrice, err = optionalPrice(c.QueryParam("max_price")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	return c.JSON(http.StatusOK, f.Apply(h.Catalog.Load(ctx)))
}

// Create inserts a product from a multipart form, uploading the
// optional image first and publishing the mirror message before the
// insert so the message id is stored with the document.
func (h *ProductHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("product_name"))
	car := strings.TrimSpace(c.FormValue("car_name"))
	if name == "" || car == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_name and car_name are required"})
	}
	price, err := utils.ParsePrice(c.FormValue("price_iqd"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price format"})
	}
	var wholesale float64
	if v := c.FormValue("wholesale_price_iqd"); v != "" {
		if wholesale, err = utils.ParsePrice(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price format"})
		}
	}
	quantity := 1
	if q := c.FormValue("quantity"); q != "" {
		if quantity, err = strconv.Atoi(q); err != nil || quantity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
		}
	}
	productType := strings.TrimSpace(c.FormValue("product_type"))
	if productType == "" {
		productType = defaultProductType
	}

	number := utils.NormalizeDigits(strings.TrimSpace(c.FormValue("product_number")))
	if number == "" {
		if number, err = utils.NewProductNumber(time.Now()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate product number failed"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 90*time.Second)
	defer cancel()

	imageURL, err := h.uploadedImage(ctx, c)
	if err != nil {
		return fail(c, err)
	}

	p := model.Product{
		ProductNumber:     number,
		ProductName:       name,
		CarName:           car,
		ModelNumber:       strings.TrimSpace(c.FormValue("model_number")),
		Type:              productType,
		Quantity:          quantity,
		OriginalQuantity:  quantity,
		PriceIQD:          price,
		WholesalePriceIQD: wholesale,
		Status:            model.DeriveStatus(quantity),
		Image:             imageURL,
		LastUpdate:        h.Catalog.Now(),
	}

	if id, err := h.Mirror.Publish(ctx, p); err != nil {
		logger.Warningf("mirror publish for %s failed: %v", p.ProductNumber, err)
	} else {
		p.MessageID = id
	}

	if err := h.Catalog.Create(ctx, p); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update applies a partial edit from a multipart form.
func (h *ProductHandler) Update(c echo.Context) error {
	u := catalog.Update{
		ProductName: optionalForm(c, "product_name"),
		CarName:     optionalForm(c, "car_name"),
		ModelNumber: optionalForm(c, "model_number"),
		Type:        optionalForm(c, "product_type"),
	}
	if v := optionalForm(c, "quantity"); v != nil {
		q, err := strconv.Atoi(*v)
		if err != nil || q < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
		}
		u.Quantity = &q
	}
	if v := optionalForm(c, "price_iqd"); v != nil {
		p, err := utils.ParsePrice(*v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price format"})
		}
		u.PriceIQD = &p
	}
	if v := optionalForm(c, "wholesale_price_iqd"); v != nil {
		p, err := utils.ParsePrice(*v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price format"})
		}
		u.WholesalePriceIQD = &p
	}
	if v := optionalForm(c, "product_number"); v != nil {
		renamed := utils.NormalizeDigits(strings.TrimSpace(*v))
		if renamed != "" {
			u.NewProductNumber = &renamed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 90*time.Second)
	defer cancel()

	imageURL, err := h.uploadedImage(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	if imageURL != "" {
		u.Image = &imageURL
	}

	p, err := h.Catalog.ApplyUpdate(ctx, c.Param("number"), u)
	if err != nil {
		return fail(c, err)
	}
	h.refreshMirror(ctx, p)
	return c.JSON(http.StatusOK, p)
}

// UpdateStatus performs the sold_one / sold_all stock transitions.
func (h *ProductHandler) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Catalog.ApplyAction(ctx, c.Param("number"), c.QueryParam("action"))
	if err != nil {
		return fail(c, err)
	}
	h.refreshMirror(ctx, p)
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product and retracts its mirror message.
func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Catalog.Delete(ctx, c.Param("number"))
	if err != nil {
		return fail(c, err)
	}
	h.Mirror.Retract(ctx, p.MessageID)
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted", "product_number": p.ProductNumber})
}

// ImageRedirect resolves an image id to the product image URL hosted
// externally and issues a redirect.
func (h *ProductHandler) ImageRedirect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	for _, p := range h.Catalog.Load(ctx) {
		if p.Image != "" && strings.Contains(p.Image, id) {
			return c.Redirect(http.StatusFound, p.Image)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
}

// refreshMirror re-renders the product's channel message after a
// mutation and records a replacement id if the edit fell back to a new
// send. Mirror trouble never fails the request.
func (h *ProductHandler) refreshMirror(ctx context.Context, p model.Product) {
	if p.MessageID == 0 {
		return
	}
	id, err := h.Mirror.Publish(ctx, p)
	if err != nil {
		logger.Warningf("mirror refresh for %s failed: %v", p.ProductNumber, err)
		return
	}
	h.Catalog.SetMessageID(ctx, p, id)
}

// uploadedImage relays the optional multipart image to the image host
// and returns its public URL ("" when no file was attached).
func (h *ProductHandler) uploadedImage(ctx context.Context, c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image attached
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return h.Images.Upload(ctx, content)
}

// optionalForm returns a pointer to the form value, or nil when the
// field was not submitted at all.
func optionalForm(c echo.Context, name string) *string {
	form, err := c.FormParams()
	if err != nil {
		return nil
	}
	values, ok := form[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// optionalPrice parses an optional float query parameter.
func optionalPrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
