package order

import (
	"errors"
	"strings"

	"dbs-store/internal/product"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ValidateCheckout runs every check that needs no I/O, in order: empty cart,
// quantities, shipping fields, payment method. Shipping fields are trimmed in place.
func ValidateCheckout(v *validator.Validate, in *CheckoutInput) error {
	if len(in.Items) == 0 {
		return newError(CodeEmptyCart)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return newError(CodeInvalidQuantity)
		}
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if notes == "" {
			in.Notes = nil
		} else {
			in.Notes = &notes
		}
	}

	if err := v.Struct(in); err != nil {
		e := newError(CodeInvalidInput)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e.Field = verrs[0].Field()
		}
		return e
	}

	if in.PaymentMethod != PaymentCOD {
		return newError(CodeUnsupportedPaymentMethod)
	}
	return nil
}

// ComputeTotals sums authoritative price × quantity per line. Shipping is free.
func ComputeTotals(lines []OrderItem) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal
	}
	const shippingFee = 0
	return Totals{Subtotal: subtotal, ShippingFee: shippingFee, Total: subtotal + shippingFee}
}

// BuildOrder prices every submitted line from prices and assembles a pending
// order. Any product missing from prices, or inactive, fails the whole build.
// The client price is ignored; name, slug and image are kept for the snapshot.
func BuildOrder(userID string, in CheckoutInput, prices map[string]product.PriceRecord) (*Order, error) {
	orderID := uuid.NewString()

	items := make([]OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		pr, ok := prices[it.ProductID]
		if !ok || !pr.IsActive {
			return nil, productNotFound(it.ProductID)
		}
		items = append(items, OrderItem{
			ID:           uuid.NewString(),
			OrderID:      orderID,
			ProductID:    it.ProductID,
			ProductName:  it.Name,
			ProductSlug:  it.Slug,
			ProductImage: it.Image,
			UnitPrice:    pr.Price,
			Quantity:     it.Quantity,
			LineTotal:    pr.Price * int64(it.Quantity),
		})
	}

	totals := ComputeTotals(items)

	return &Order{
		ID:              orderID,
		UserID:          userID,
		Status:          StatusPending,
		StatusLabel:     StatusPending.Label(),
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   PaymentStatusPending,
		ShippingName:    in.Name,
		ShippingPhone:   in.Phone,
		ShippingCity:    in.City,
		ShippingAddress: in.Address,
		ShippingNotes:   in.Notes,
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		Items:           items,
	}, nil
}

// ProductIDs returns the distinct product ids of the submitted lines.
func ProductIDs(items []CheckoutItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
