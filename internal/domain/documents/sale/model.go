// Package sale provides the sale document: a snapshot of a line-item
// cart that deducts stock and accumulates customer lifetime spend.
// Sales are immutable once created; there are no partial voids.
package sale

import (
	"context"
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// EntityType is the recorder type written to stock movements and the
// audit trail.
const EntityType = "sale"

// PaymentMethod is how the sale was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

// Channel is where the sale came from.
type Channel string

const (
	ChannelWalkIn    Channel = "walk_in"
	ChannelInstagram Channel = "instagram"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelWebsite   Channel = "website"
)

// Item is one sold line, a snapshot of price at the time of sale.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// Sale represents one completed sale.
type Sale struct {
	entity.BaseDocument

	Number string    `db:"number" json:"number"`
	Date   time.Time `db:"date" json:"date"`

	// CustomerID is optional: walk-in sales have no customer record.
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Channel       Channel       `db:"channel" json:"channel"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Discount types.Money `db:"discount" json:"discount"`
	Total    types.Money `db:"total" json:"total"`

	// Table part: sold items
	Items []Item `db:"-" json:"items"`
}

// New creates a sale.
func New(customerID *id.ID, paymentMethod PaymentMethod, channel Channel) *Sale {
	return &Sale{
		BaseDocument:  entity.NewBaseDocument(),
		Date:          time.Now().UTC(),
		CustomerID:    customerID,
		PaymentMethod: paymentMethod,
		Channel:       channel,
		Items:         make([]Item, 0),
	}
}

// AddItem appends a sold line and recalculates totals.
func (s *Sale) AddItem(productID id.ID, quantity int64, unitPrice types.Money) {
	item := Item{
		LineID:    id.New(),
		LineNo:    len(s.Items) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(types.MoneyFromInt(quantity)),
	}

	s.Items = append(s.Items, item)
	s.recalculateTotals()
}

// SetDiscount sets the whole-sale discount and refreshes the total.
func (s *Sale) SetDiscount(discount types.Money) {
	s.Discount = discount
	s.recalculateTotals()
}

func (s *Sale) recalculateTotals() {
	subtotal := types.Zero()
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	s.Subtotal = subtotal
	s.Total = subtotal.Sub(s.Discount)
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if s.PaymentMethod == "" {
		return apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethod")
	}

	if len(s.Items) == 0 {
		return apperror.NewValidation("sale must have at least one item").
			WithDetail("field", "items")
	}

	for _, item := range s.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("lineNo", item.LineNo)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("lineNo", item.LineNo)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("item unit price cannot be negative").
				WithDetail("lineNo", item.LineNo)
		}
	}

	if s.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}

	if s.Total.IsNegative() {
		return apperror.NewValidation("total cannot be negative").
			WithDetail("subtotal", s.Subtotal.String()).
			WithDetail("discount", s.Discount.String())
	}

	return nil
}
