package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_TotalAmount(t *testing.T) {
	order := Order{Quantity: 2, Price: 149.99}

	assert.Equal(t, 299.98, order.TotalAmount())
}

func TestOrder_TotalAmount_Rounding(t *testing.T) {
	// 3 × 0.115 = 0.345 — округление до двух знаков
	order := Order{Quantity: 3, Price: 0.115}

	assert.Equal(t, 0.35, order.TotalAmount())
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  []string
	}{
		{
			name:  "valid order",
			order: Order{CustomerID: 1, ProductName: "Laptop", Quantity: 1, Price: 999.99, Status: StatusPending},
			want:  nil,
		},
		{
			name:  "missing customer",
			order: Order{ProductName: "Laptop", Quantity: 1, Price: 999.99, Status: StatusPending},
			want:  []string{"Customer can't be blank"},
		},
		{
			name:  "missing product name",
			order: Order{CustomerID: 1, Quantity: 1, Price: 999.99, Status: StatusPending},
			want:  []string{"Product name can't be blank"},
		},
		{
			name:  "zero quantity",
			order: Order{CustomerID: 1, ProductName: "Laptop", Price: 999.99, Status: StatusPending},
			want:  []string{"Quantity must be greater than 0"},
		},
		{
			name:  "negative price",
			order: Order{CustomerID: 1, ProductName: "Laptop", Quantity: 1, Price: -10, Status: StatusPending},
			want:  []string{"Price must be greater than 0"},
		},
		{
			name:  "unknown status",
			order: Order{CustomerID: 1, ProductName: "Laptop", Quantity: 1, Price: 999.99, Status: "unknown"},
			want:  []string{"Status is not a valid status"},
		},
		{
			name:  "all fields invalid",
			order: Order{},
			want: []string{
				"Customer can't be blank",
				"Product name can't be blank",
				"Quantity must be greater than 0",
				"Price must be greater than 0",
				"Status is not a valid status",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.Validate())
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}

	assert.False(t, Status("paid").Valid())
	assert.False(t, Status("").Valid())
}
