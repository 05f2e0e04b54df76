// Package stats collects counts of retired instructions.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/pkg/utils"
	"golang.org/x/exp/maps"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram counts retired instructions per mnemonic.
type Histogram struct {
	counts map[string]uint64
	total  uint64
}

// Entry is one bar of the Histogram.
type Entry struct {
	Mnemonic string
	Count    uint64
}

// NewHistogram returns an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[string]uint64)}
}

// Count records one retired instruction.
func (h *Histogram) Count(d *opcodes.Descriptor) {
	h.counts[d.Mnemonic]++
	h.total++
}

// Total returns the number of instructions counted.
func (h *Histogram) Total() uint64 {
	return h.total
}

// Entries returns the counts, most frequent first.
func (h *Histogram) Entries() []Entry {
	names := maps.Keys(h.counts)
	sort.Slice(names, func(i, j int) bool {
		if h.counts[names[i]] != h.counts[names[j]] {
			return h.counts[names[i]] > h.counts[names[j]]
		}
		return names[i] < names[j]
	})

	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Mnemonic: name, Count: h.counts[name]}
	}
	return entries
}

// String renders the Histogram as a text table.
func (h *Histogram) String() string {
	var b strings.Builder
	for _, e := range h.Entries() {
		fmt.Fprintf(&b, "%-6s %10d %6.2f%%\n", e.Mnemonic, e.Count, 100*float64(e.Count)/float64(h.total))
	}
	fmt.Fprintf(&b, "%-6s %10d\n", "total", h.total)
	return b.String()
}

// WritePNG renders the Histogram as a bar chart.
func (h *Histogram) WritePNG(w io.Writer) error {
	entries := h.Entries()

	p := plot.New()
	p.Title.Text = "Retired instructions"
	p.Y.Label.Text = "Count"

	values := make(plotter.Values, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Count)
		names[i] = e.Mnemonic
	}

	if len(entries) > 0 {
		bars, err := plotter.NewBarChart(values, vg.Points(12))
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(names...)
	}

	width := utils.Clamp(4*vg.Inch, vg.Length(len(entries)+4)*vg.Points(16), 24*vg.Inch)
	wt, err := p.WriterTo(width, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG writes the bar chart to filename.
func (h *Histogram) SavePNG(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := h.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
