package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "customer not found",
			err:  ErrCustomerNotFound,
			want: ErrorKindCustomerNotFound,
		},
		{
			name: "wrapped customer not found",
			err:  fmt.Errorf("resolve customer: %w", ErrCustomerNotFound),
			want: ErrorKindCustomerNotFound,
		},
		{
			name: "products not found",
			err:  ErrProductsNotFound,
			want: ErrorKindProductsNotFound,
		},
		{
			name: "out of stock sentinel",
			err:  ErrOutOfStock,
			want: ErrorKindOutOfStock,
		},
		{
			name: "out of stock with product name",
			err:  &OutOfStockError{ProductName: "keyboard"},
			want: ErrorKindOutOfStock,
		},
		{
			name: "invalid qty",
			err:  ErrItemQtyInvalid,
			want: ErrorKindInvalidRequest,
		},
		{
			name: "storage failure",
			err:  errors.New("connection refused"),
			want: ErrorKindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutOfStockError_Message(t *testing.T) {
	err := &OutOfStockError{ProductName: "keyboard"}

	if got, want := err.Error(), "product keyboard out of stock"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrOutOfStock) {
		t.Error("OutOfStockError should match ErrOutOfStock")
	}

	var oos *OutOfStockError
	wrapped := fmt.Errorf("update quantities: %w", err)
	if !errors.As(wrapped, &oos) {
		t.Fatal("errors.As should recover OutOfStockError from wrapped chain")
	}
	if oos.ProductName != "keyboard" {
		t.Errorf("expected product name keyboard, got %s", oos.ProductName)
	}
}

func TestIsClientError(t *testing.T) {
	if IsClientError(nil) {
		t.Error("nil error is not a client error")
	}
	if !IsClientError(ErrCustomerNotFound) {
		t.Error("ErrCustomerNotFound is a client error")
	}
	if IsClientError(errors.New("disk full")) {
		t.Error("internal error is not a client error")
	}
}
