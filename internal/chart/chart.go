package chart

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/vbonduro/filmlog/internal/stats"
)

// Figure size of the side-by-side count and percentage charts.
const (
	figureWidth  = 12 * vg.Inch
	figureHeight = 6 * vg.Inch
)

// Labels are the human-readable strings drawn on a chart pair.
type Labels struct {
	// Subject completes "All the different %s I've shot", e.g. "films".
	Subject string
}

func (l Labels) countTitle() string {
	return fmt.Sprintf("All the different %s I've shot (Count)", l.Subject)
}

func (l Labels) percentTitle() string {
	return fmt.Sprintf("All the different %s I've shot (Percentage)", l.Subject)
}

// Render draws the count and percentage bar charts of d next to each other and
// returns the PNG bytes.
func Render(d stats.Distribution, p Palette, labels Labels) ([]byte, error) {
	counts := make([]float64, len(d.Buckets))
	percents := make([]float64, len(d.Buckets))
	for i, b := range d.Buckets {
		counts[i] = float64(b.Count)
		percents[i] = b.Percent
	}

	countPlot, err := barPlot(d.Values(), counts, p, labels.countTitle(), "n")
	if err != nil {
		return nil, fmt.Errorf("failed to build count chart: %w", err)
	}
	percentPlot, err := barPlot(d.Values(), percents, p, labels.percentTitle(), "Percentage")
	if err != nil {
		return nil, fmt.Errorf("failed to build percentage chart: %w", err)
	}

	img := vgimg.New(figureWidth, figureHeight)
	dc := draw.New(img)

	plots := [][]*plot.Plot{{countPlot, percentPlot}}
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart png: %w", err)
	}
	return buf.Bytes(), nil
}

// barPlot builds one bar per category. Each bar is its own BarChart so it can
// carry its own color.
func barPlot(names []string, values []float64, p Palette, title, yLabel string) (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = title
	plt.Y.Label.Text = yLabel
	plt.Y.Min = 0
	plt.X.Tick.Label.Rotation = math.Pi / 2
	plt.X.Tick.Label.XAlign = text.XRight
	plt.X.Tick.Label.YAlign = text.YCenter

	width := barWidth(len(values))
	for i, v := range values {
		bar, err := plotter.NewBarChart(plotter.Values{v}, width)
		if err != nil {
			return nil, fmt.Errorf("failed to create bar %q: %w", names[i], err)
		}
		bar.XMin = float64(i)
		bar.Color = p.Color(names[i])
		bar.LineStyle.Width = 0
		plt.Add(bar)
	}
	// NominalX indexes its first name.
	if len(names) > 0 {
		plt.NominalX(names...)
	}

	return plt, nil
}

func barWidth(n int) vg.Length {
	if n == 0 {
		return vg.Points(20)
	}
	return vg.Points(math.Min(40, 300/float64(n)))
}
