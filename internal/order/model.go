package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:   "En attente",
	StatusConfirmed: "Confirmée",
	StatusShipped:   "Expédiée",
	StatusDelivered: "Livrée",
	StatusCancelled: "Annulée",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the French display name of the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type PaymentMethod string

// Only cash on delivery is accepted. The other methods exist in stored data
// and the API vocabulary but checkout rejects them.
const (
	PaymentCOD         PaymentMethod = "cod"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCard        PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Status          Status        `json:"status"`
	StatusLabel     string        `json:"statusLabel"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	ShippingName    string        `json:"shippingName"`
	ShippingPhone   string        `json:"shippingPhone"`
	ShippingCity    string        `json:"shippingCity"`
	ShippingAddress string        `json:"shippingAddress"`
	ShippingNotes   *string       `json:"shippingNotes"`
	Subtotal        int64         `json:"subtotal"`
	ShippingFee     int64         `json:"shippingFee"`
	Total           int64         `json:"total"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Items           []OrderItem   `json:"items,omitempty"`
}

// OrderItem is an immutable snapshot of a product line at order time.
type OrderItem struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductSlug  string `json:"productSlug"`
	ProductImage string `json:"productImage"`
	UnitPrice    int64  `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
	LineTotal    int64  `json:"lineTotal"`
}

// CheckoutItem is a cart line as submitted by the client. Price is informational only.
type CheckoutItem struct {
	ProductID string `json:"productId" validate:"required"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

type CheckoutInput struct {
	Name          string         `json:"name" validate:"required,max=120"`
	Phone         string         `json:"phone" validate:"required,max=30"`
	City          string         `json:"city" validate:"required,max=80"`
	Address       string         `json:"address" validate:"required,max=255"`
	Notes         *string        `json:"notes" validate:"omitempty,max=500"`
	PaymentMethod PaymentMethod  `json:"payment_method" validate:"required"`
	Items         []CheckoutItem `json:"items" validate:"dive"`
}

// Customer is the authenticated caller placing or reading orders.
type Customer struct {
	UserID        string
	EmailVerified bool
}

type CreateResult struct {
	OrderID string `json:"orderId"`
}

// Totals is the money part of an order computed from trusted prices.
type Totals struct {
	Subtotal    int64
	ShippingFee int64
	Total       int64
}

type ListFilter struct {
	Status *Status
	Limit  int
	Page   int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (f ListFilter) normalized() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
