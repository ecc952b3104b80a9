package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

const (
	PlotHeight = 10
	PlotWidth  = 80
)

// PlotOutputs draws one chart per output channel of a time response.
// outputs is indexed [step][channel].
func PlotOutputs(outputs [][]float64, caption string) string {
	if len(outputs) == 0 || len(outputs[0]) == 0 {
		return ""
	}
	var out string
	for ch := range outputs[0] {
		data := make([]float64, len(outputs))
		for i := range outputs {
			if ch < len(outputs[i]) {
				data[i] = outputs[i][ch]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(PlotHeight),
			asciigraph.Width(PlotWidth),
			asciigraph.Caption(fmt.Sprintf("%s z%d", caption, ch)),
		)
		out += graph + "\n\n"
	}
	return out
}

// PlotSeries draws several series on one chart.
func PlotSeries(series [][]float64, caption string) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
	)
}
