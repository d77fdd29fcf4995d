package orders

import (
	"errors"
	"strings"
)

var (
	// ErrStockConflict means a conditional decrement applied zero rows: a
	// concurrent order consumed the stock between the validate phase and the
	// reserve phase. The reservation transaction rolls back, so no partial
	// decrement survives.
	ErrStockConflict = errors.New("stock changed during reservation")

	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError reports a malformed create-order request, detected before
// any read or write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// OutOfStockError names every line item that cannot be satisfied, so the
// client can fix the whole cart in one pass.
type OutOfStockError struct {
	Items []string
}

func (e *OutOfStockError) Error() string {
	return "The following items are out of stock or have insufficient quantity: " + strings.Join(e.Items, ", ")
}
