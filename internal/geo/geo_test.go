package geo

import (
	"image/color"
	"testing"

	"sales-dashboard/internal/models"
)

func TestShade(t *testing.T) {
	got := Shade([]models.KeyedSales{
		{Key: "Victoria", Sales: 300},
		{Key: "new south wales ", Sales: 100},
		{Key: "Queensland", Sales: 200},
		{Key: "Atlantis", Sales: 999},
	})

	if len(got) != len(Regions) {
		t.Fatalf("got %d regions, want %d", len(got), len(Regions))
	}

	want := map[string]struct {
		sales     float64
		intensity float64
	}{
		"New South Wales": {100, 0},
		"Victoria":        {300, 1},
		"Queensland":      {200, 0.5},
		"Tasmania":        {0, 0},
	}

	for _, shade := range got {
		if shade.Region == "Atlantis" {
			t.Errorf("unknown region should be dropped")
		}
		w, ok := want[shade.Region]
		if !ok {
			continue
		}
		if shade.Sales != w.sales {
			t.Errorf("%s sales = %v, want %v", shade.Region, shade.Sales, w.sales)
		}
		if shade.Intensity != w.intensity {
			t.Errorf("%s intensity = %v, want %v", shade.Region, shade.Intensity, w.intensity)
		}
		if len(shade.Color) != 7 || shade.Color[0] != '#' {
			t.Errorf("%s color = %q, want #rrggbb", shade.Region, shade.Color)
		}
	}
}

func TestShade_SingleRegion(t *testing.T) {
	got := Shade([]models.KeyedSales{{Key: "Tasmania", Sales: 50}})
	for _, s := range got {
		if s.Region == "Tasmania" && s.Intensity != 1 {
			t.Errorf("lone region intensity = %v, want 1", s.Intensity)
		}
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		t    float64
		want color.RGBA
	}{
		{0, color.RGBA{R: 59, G: 76, B: 192, A: 255}},
		{0.5, color.RGBA{R: 221, G: 221, B: 221, A: 255}},
		{1, color.RGBA{R: 180, G: 4, B: 38, A: 255}},
		{-3, color.RGBA{R: 59, G: 76, B: 192, A: 255}},
		{7, color.RGBA{R: 180, G: 4, B: 38, A: 255}},
	}

	for _, tt := range tests {
		if got := Color(tt.t); got != tt.want {
			t.Errorf("Color(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{R: 255, G: 0, B: 16, A: 255}); got != "#ff0010" {
		t.Errorf("Hex() = %q, want #ff0010", got)
	}
}
