package models

import "testing"

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		quantity int
		want     StockStatus
	}{
		{100, StockInStock},
		{11, StockInStock},
		{10, StockLowStock}, // boundary: exactly at threshold is low
		{1, StockLowStock},
		{0, StockOutOfStock},
		{-3, StockOutOfStock}, // oversold
	}

	for _, tt := range tests {
		if got := DeriveStockStatus(tt.quantity); got != tt.want {
			t.Errorf("DeriveStockStatus(%d) = %s, want %s", tt.quantity, got, tt.want)
		}
	}
}
