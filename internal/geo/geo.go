// Package geo shades Australian states and territories by sales for the
// choropleth view.
package geo

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"sales-dashboard/internal/models"
)

// Regions are the state and territory names of the ABS 2021 boundaries
// (STE_NAME21), in map order.
var Regions = []string{
	"New South Wales",
	"Victoria",
	"Queensland",
	"South Australia",
	"Western Australia",
	"Tasmania",
	"Northern Territory",
	"Australian Capital Territory",
	"Other Territories",
}

var (
	cool    = [3]float64{59, 76, 192}
	neutral = [3]float64{221, 221, 221}
	warm    = [3]float64{180, 4, 38}
)

// Shade joins state sales onto Regions. Every region is returned; regions
// without sales get zero sales and zero intensity. States that are not
// map regions are dropped.
func Shade(sales []models.KeyedSales) []models.RegionShade {
	byRegion := make(map[string]float64, len(sales))
	for _, s := range sales {
		byRegion[normalize(s.Key)] += s.Sales
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range Regions {
		v, ok := byRegion[normalize(r)]
		if !ok {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]models.RegionShade, 0, len(Regions))
	for _, r := range Regions {
		v, ok := byRegion[normalize(r)]
		shade := models.RegionShade{Region: r, Sales: v}
		if ok {
			shade.Intensity = intensity(v, lo, hi)
		}
		shade.Color = Hex(Color(shade.Intensity))
		out = append(out, shade)
	}
	return out
}

func intensity(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	return (v - lo) / (hi - lo)
}

// Color maps an intensity in [0,1] onto a diverging cool-to-warm scale.
// Values outside the range are clamped.
func Color(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))

	from, to, f := cool, neutral, t*2
	if t > 0.5 {
		from, to, f = neutral, warm, (t-0.5)*2
	}
	lerp := func(a, b float64) uint8 {
		return uint8(math.Round(a + (b-a)*f))
	}
	return color.RGBA{R: lerp(from[0], to[0]), G: lerp(from[1], to[1]), B: lerp(from[2], to[2]), A: 255}
}

func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
