package utils

import (
	"dbs-store/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const invalidPrice = "—"

var frPrinter = message.NewPrinter(language.French)

// FormatPrice renders an FCFA amount with French digit grouping.
// Negative amounts are logged and shown as a dash.
func FormatPrice(price int64) string {
	if price < 0 {
		logger.L().Error("invalid price", zap.Int64("price", price))
		return invalidPrice
	}
	return frPrinter.Sprintf("%d", price)
}

func FormatFCFA(price int64) string {
	s := FormatPrice(price)
	if s == invalidPrice {
		return s
	}
	return s + " FCFA"
}
