package product

import (
	"errors"
	"testing"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

func sampleProduct() *Product {
	return &Product{
		ID:    "p1",
		Name:  "Runner",
		Price: 1000,
		Variations: []Variation{
			{Color: "red", Sizes: []common.Size{"41", "42"}, Stock: 5},
			{Color: "blue", Sizes: []common.Size{"40"}, Stock: 1},
		},
	}
}

func TestDecrementStock_FloorsAtZero(t *testing.T) {
	p := sampleProduct()

	before, after, err := p.DecrementStock("red", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != 5 || after != 4 {
		t.Fatalf("got before=%d after=%d, want 5/4", before, after)
	}

	_, after, err = p.DecrementStock("blue", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != 0 || p.Variations[1].Stock != 0 {
		t.Fatalf("stock went below zero: %d", p.Variations[1].Stock)
	}
}

func TestDecrementStock_UnknownColor(t *testing.T) {
	p := sampleProduct()
	if _, _, err := p.DecrementStock("green", 1); !errors.Is(err, ErrVariationNotFound) {
		t.Fatalf("got %v, want ErrVariationNotFound", err)
	}
}

func TestValidate_RejectsDuplicateColor(t *testing.T) {
	p := sampleProduct()
	p.Variations = append(p.Variations, Variation{Color: "red", Stock: 1})
	if err := p.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestUnitPrice_UsesOverride(t *testing.T) {
	p := sampleProduct()
	override := 1500.0
	p.Variations[1].Price = &override

	if got := p.UnitPrice("red"); got != 1000 {
		t.Fatalf("red price = %v", got)
	}
	if got := p.UnitPrice("blue"); got != 1500 {
		t.Fatalf("blue price = %v", got)
	}
}

func TestFilterMatch(t *testing.T) {
	p := *sampleProduct()
	p.Category = "Running"
	yes := true

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty", Filter{}, true},
		{"category case-insensitive", Filter{Category: "running"}, true},
		{"other category", Filter{Category: "casual"}, false},
		{"onSale mismatch", Filter{OnSale: &yes}, false},
		{"size present", Filter{Size: "42"}, true},
		{"size float form", Filter{Size: "42.0"}, true},
		{"size absent", Filter{Size: "44"}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Match(p); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}
