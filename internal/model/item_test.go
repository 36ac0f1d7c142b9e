package model

import "testing"

func TestStatusForQuantity(t *testing.T) {
	cases := []struct {
		quantity int
		want     StockStatus
	}{
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{19, StatusLowStock},
		{20, StatusInStock},
		{500, StatusInStock},
	}
	for _, c := range cases {
		if got := StatusForQuantity(c.quantity); got != c.want {
			t.Errorf("StatusForQuantity(%d) = %q, want %q", c.quantity, got, c.want)
		}
	}
}

func TestClampReorderLevel(t *testing.T) {
	if got := ClampReorderLevel(-5); got != 0 {
		t.Errorf("expected -5 to clamp to 0, got %d", got)
	}
	if got := ClampReorderLevel(500); got != ReorderCap {
		t.Errorf("expected 500 to clamp to %d, got %d", ReorderCap, got)
	}
	if got := ClampReorderLevel(7); got != 7 {
		t.Errorf("expected 7 to stay 7, got %d", got)
	}
}
