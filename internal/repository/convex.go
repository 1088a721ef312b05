package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carstock/internal/apperr"
	"carstock/internal/model"
	"carstock/internal/utils"
)

// Function paths exposed by the document database deployment.
const (
	fnGetProducts      = "products:getProducts"
	fnAddProduct       = "products:addProduct"
	fnUpdateProduct    = "products:updateProduct"
	fnDeleteProduct    = "products:deleteProduct"
	fnCreateBackup     = "backups:createBackup"
	fnDeleteOldBackups = "backups:deleteOldBackups"
	fnListUsers        = "users:listUsers"
)

// ConvexClient talks to a Convex-style document database over HTTPS.
// Queries go to POST {base}/api/query and mutations to POST
// {base}/api/mutation, both carrying a function path and a JSON args
// object. It implements ProductRepository, BackupRepository and
// UserDirectory.
type ConvexClient struct {
	baseURL string
	http    *http.Client
}

// NewConvexClient returns a client for the deployment at baseURL.
func NewConvexClient(baseURL string) *ConvexClient {
	return &ConvexClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type convexRequest struct {
	Path   string `json:"path"`
	Args   any    `json:"args"`
	Format string `json:"format"`
}

type convexResponse struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
}

// call posts a function invocation and decodes the value into out when
// out is non-nil. All failures are wrapped as upstream errors.
func (c *ConvexClient) call(ctx context.Context, endpoint, path string, args, out any) error {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(convexRequest{Path: path, Args: args, Format: "json"})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrUpstream, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", apperr.ErrUpstream, path, resp.StatusCode)
	}
	var cr convexResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrUpstream, path, err)
	}
	if cr.Status != "success" {
		return fmt.Errorf("%w: %s: %s", apperr.ErrUpstream, path, cr.ErrorMessage)
	}
	if out != nil && len(cr.Value) > 0 {
		if err := json.Unmarshal(cr.Value, out); err != nil {
			return fmt.Errorf("%w: %s: %v", apperr.ErrUpstream, path, err)
		}
	}
	return nil
}

func (c *ConvexClient) query(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, "/api/query", path, args, out)
}

func (c *ConvexClient) mutation(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, "/api/mutation", path, args, out)
}

// ListProducts returns every product document.
func (c *ConvexClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.query(ctx, fnGetProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByBusinessKey scans the full product list for a matching
// normalized product number. The deployment exposes no get-by-key
// query, so the scan is the lookup.
func (c *ConvexClient) FindByBusinessKey(ctx context.Context, productNumber string) (model.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return model.Product{}, err
	}
	key := utils.NormalizeDigits(productNumber)
	for _, p := range products {
		if utils.NormalizeDigits(p.ProductNumber) == key {
			return p, nil
		}
	}
	return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, productNumber)
}

// Insert stores a new product document. The internal id field is never
// sent; the database assigns it.
func (c *ConvexClient) Insert(ctx context.Context, p model.Product) error {
	args := map[string]any{
		"product_number":      p.ProductNumber,
		"product_name":        p.ProductName,
		"car_name":            p.CarName,
		"model_number":        p.ModelNumber,
		"type":                p.Type,
		"quantity":            p.Quantity,
		"original_quantity":   p.OriginalQuantity,
		"price_iqd":           p.PriceIQD,
		"wholesale_price_iqd": p.WholesalePriceIQD,
		"status":              p.Status,
		"last_update":         p.LastUpdate,
	}
	if p.Image != "" {
		args["image"] = p.Image
	}
	if p.MessageID != 0 {
		args["message_id"] = p.MessageID
	}
	return c.mutation(ctx, fnAddProduct, args, nil)
}

// PatchFields applies a whitelisted partial update to a document.
func (c *ConvexClient) PatchFields(ctx context.Context, id string, patch model.ProductPatch) error {
	return c.mutation(ctx, fnUpdateProduct, map[string]any{"id": id, "updates": patch}, nil)
}

// DeleteByID removes a product document.
func (c *ConvexClient) DeleteByID(ctx context.Context, id string) error {
	return c.mutation(ctx, fnDeleteProduct, map[string]any{"id": id}, nil)
}

// CreateBackup stores a snapshot in the remote backup table.
func (c *ConvexClient) CreateBackup(ctx context.Context, b model.RemoteBackup) error {
	return c.mutation(ctx, fnCreateBackup, map[string]any{
		"filename":       b.Filename,
		"data":           b.Data,
		"total_products": b.TotalProducts,
		"type":           b.Type,
	}, nil)
}

// PruneBackups deletes remote backups beyond the newest keep entries.
func (c *ConvexClient) PruneBackups(ctx context.Context, keep int) error {
	return c.mutation(ctx, fnDeleteOldBackups, map[string]any{"keepCount": keep}, nil)
}

// ListUsers returns the remote user directory.
func (c *ConvexClient) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.query(ctx, fnListUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
