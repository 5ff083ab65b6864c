package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/blck04/irrigation-model/internal/models"
)

// Canvas layout for the season overview chart.
const (
	chartWidth  = 1000
	chartHeight = 520

	marginLeft   = 70
	marginRight  = 30
	marginTop    = 50
	marginBottom = 60
)

var (
	colBackground = color.RGBA{252, 252, 250, 255}
	colAxis       = color.RGBA{60, 60, 60, 255}
	colGrid       = color.RGBA{225, 225, 225, 255}
	colMoisture   = color.RGBA{30, 90, 180, 255}
	colRain       = color.RGBA{120, 180, 235, 255}
	colIrrigation = color.RGBA{50, 160, 80, 255}
	colCapacity   = color.RGBA{150, 150, 150, 255}
	colThreshold  = color.RGBA{220, 140, 40, 255}
	colWilting    = color.RGBA{200, 60, 60, 255}
	colText       = color.RGBA{40, 40, 40, 255}
)

// Render draws the season overview: the soil-moisture trace with the field
// capacity, irrigation threshold and wilting point guide lines, and daily
// rain plus irrigation bars along the baseline. Returns PNG bytes.
func Render(result models.SimulationResult, soil models.SoilProfile) ([]byte, error) {
	if len(result.Days) == 0 {
		return nil, fmt.Errorf("no simulation days to chart")
	}

	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	fill(img, img.Bounds(), colBackground)

	plot := image.Rect(marginLeft, marginTop, chartWidth-marginRight, chartHeight-marginBottom)

	// Vertical scale covers the soil lines and everything simulated.
	yMax := soil.FieldCapacity
	yMin := math.Min(soil.WiltingPoint, 0)
	var barMax float64
	for _, d := range result.Days {
		yMax = math.Max(yMax, d.SoilMoisture)
		barMax = math.Max(barMax, d.Precip+d.Irrigation)
	}
	yMax *= 1.05
	if yMax <= yMin {
		yMax = yMin + 1
	}

	toX := func(i int) int {
		if len(result.Days) == 1 {
			return plot.Min.X
		}
		return plot.Min.X + i*(plot.Dx()-1)/(len(result.Days)-1)
	}
	toY := func(v float64) int {
		frac := (v - yMin) / (yMax - yMin)
		return plot.Max.Y - int(frac*float64(plot.Dy()-1))
	}

	drawGrid(img, plot, yMin, yMax, toY)

	// Rain and irrigation bars share the moisture scale, drawn from the
	// baseline with irrigation stacked on rain.
	if barMax > 0 {
		barW := maxInt(1, plot.Dx()/len(result.Days)-1)
		for i, d := range result.Days {
			x := toX(i) - barW/2
			rainTop := toY(yMin + d.Precip)
			fill(img, image.Rect(x, rainTop, x+barW, plot.Max.Y), colRain)
			if d.Irrigation > 0 {
				irrTop := toY(yMin + d.Precip + d.Irrigation)
				fill(img, image.Rect(x, irrTop, x+barW, rainTop), colIrrigation)
			}
		}
	}

	// Soil parameter guide lines.
	hline(img, plot, toY(soil.FieldCapacity), colCapacity)
	hline(img, plot, toY(soil.IrrigationThreshold), colThreshold)
	hline(img, plot, toY(soil.WiltingPoint), colWilting)

	// Moisture trace on top.
	for i := 1; i < len(result.Days); i++ {
		line(img,
			toX(i-1), toY(result.Days[i-1].SoilMoisture),
			toX(i), toY(result.Days[i].SoilMoisture),
			colMoisture)
	}

	drawAxes(img, plot)
	drawLabels(img, plot, result, soil, toY)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFile writes the season overview PNG to a path.
func RenderFile(path string, result models.SimulationResult, soil models.SoilProfile) error {
	data, err := Render(result, soil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func drawGrid(img *image.RGBA, plot image.Rectangle, yMin, yMax float64, toY func(float64) int) {
	step := niceStep(yMax - yMin)
	for v := math.Ceil(yMin/step) * step; v <= yMax; v += step {
		hline(img, plot, toY(v), colGrid)
	}
}

func drawAxes(img *image.RGBA, plot image.Rectangle) {
	for x := plot.Min.X; x <= plot.Max.X; x++ {
		img.SetRGBA(x, plot.Max.Y, colAxis)
	}
	for y := plot.Min.Y; y <= plot.Max.Y; y++ {
		img.SetRGBA(plot.Min.X, y, colAxis)
	}
}

func drawLabels(img *image.RGBA, plot image.Rectangle, result models.SimulationResult, soil models.SoilProfile, toY func(float64) int) {
	drawText(img, "Soil water balance (mm/m)", plot.Min.X, marginTop-20, colText)

	drawText(img, "FC", plot.Max.X-24, toY(soil.FieldCapacity)-4, colCapacity)
	drawText(img, "IT", plot.Max.X-24, toY(soil.IrrigationThreshold)-4, colThreshold)
	drawText(img, "WP", plot.Max.X-24, toY(soil.WiltingPoint)-4, colWilting)

	first := result.Days[0].Date.Format("Jan 2")
	last := result.Days[len(result.Days)-1].Date.Format("Jan 2 2006")
	drawText(img, first, plot.Min.X, plot.Max.Y+20, colText)
	drawText(img, last, plot.Max.X-70, plot.Max.Y+20, colText)

	// Legend under the plot.
	legendY := plot.Max.Y + 40
	fill(img, image.Rect(plot.Min.X, legendY-8, plot.Min.X+16, legendY), colMoisture)
	drawText(img, "moisture", plot.Min.X+22, legendY, colText)
	fill(img, image.Rect(plot.Min.X+110, legendY-8, plot.Min.X+126, legendY), colRain)
	drawText(img, "rain", plot.Min.X+132, legendY, colText)
	fill(img, image.Rect(plot.Min.X+190, legendY-8, plot.Min.X+206, legendY), colIrrigation)
	drawText(img, "irrigation", plot.Min.X+212, legendY, colText)
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func fill(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func hline(img *image.RGBA, plot image.Rectangle, y int, col color.RGBA) {
	if y < plot.Min.Y || y > plot.Max.Y {
		return
	}
	for x := plot.Min.X; x <= plot.Max.X; x++ {
		img.SetRGBA(x, y, col)
	}
}

// line draws with a shallow Bresenham walk; traces here are never steep
// enough to need the transposed case to look good.
func line(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// niceStep picks a round grid interval for a value range.
func niceStep(span float64) float64 {
	raw := span / 6
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag >= 5:
		return 5 * mag
	case raw/mag >= 2:
		return 2 * mag
	default:
		return mag
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
