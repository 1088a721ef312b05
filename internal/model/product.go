package model

// Product statuses as exposed over the API. Status is always derived
// from quantity; it is stored alongside the record only so the mirror
// and exports can render it without recomputing.
const (
	StatusAvailable  = "available"
	StatusOutOfStock = "out of stock"
)

// Product mirrors a document in the remote `products` table. The remote
// database is authoritative; in-process copies are per-request
// projections and are never written back wholesale. Field names follow
// the wire contract consumed by the frontend.
//
// Fields:
//  ID               – remote document id (opaque, assigned by the database).
//  ProductNumber    – business key, unique across the catalog. Lookups
//                     always normalize Arabic-Indic digits first.
//  OriginalQuantity – quantity at creation time, never decremented;
//                     original_quantity - quantity = units sold.
//  MessageID        – id of the mirrored message in the messaging
//                     channel, 0 when the product has no mirror.
type Product struct {
	ID                string  `json:"_id,omitempty"`
	ProductNumber     string  `json:"product_number"`
	ProductName       string  `json:"product_name"`
	CarName           string  `json:"car_name"`
	ModelNumber       string  `json:"model_number"`
	Type              string  `json:"type"`
	Quantity          int     `json:"quantity"`
	OriginalQuantity  int     `json:"original_quantity"`
	PriceIQD          float64 `json:"price_iqd"`
	WholesalePriceIQD float64 `json:"wholesale_price_iqd"`
	Status            string  `json:"status"`
	Image             string  `json:"image,omitempty"`
	LastUpdate        string  `json:"last_update"`
	MessageID         int64   `json:"message_id,omitempty"`
}

// DeriveStatus returns the status string implied by a quantity.
func DeriveStatus(quantity int) string {
	if quantity > 0 {
		return StatusAvailable
	}
	return StatusOutOfStock
}

// ProductPatch carries the whitelisted fields forwarded to the remote
// database on update. Pointer fields distinguish "absent" from zero
// values; the business key itself is never part of a patch sent for the
// same document it identifies unless the product is being renamed.
type ProductPatch struct {
	ProductNumber     *string  `json:"product_number,omitempty"`
	ProductName       *string  `json:"product_name,omitempty"`
	CarName           *string  `json:"car_name,omitempty"`
	ModelNumber       *string  `json:"model_number,omitempty"`
	Type              *string  `json:"type,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	PriceIQD          *float64 `json:"price_iqd,omitempty"`
	WholesalePriceIQD *float64 `json:"wholesale_price_iqd,omitempty"`
	Image             *string  `json:"image,omitempty"`
	Status            *string  `json:"status,omitempty"`
	LastUpdate        *string  `json:"last_update,omitempty"`
	MessageID         *int64   `json:"message_id,omitempty"`
}
