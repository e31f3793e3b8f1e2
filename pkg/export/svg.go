package export

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// SVGOptions controls the top-down rendering. Unlike the teacher's
// circular/force-directed dungeon layout, a city already has real (x, y)
// coordinates — SVGOptions only needs to fit world space into a canvas,
// not invent a layout.
type SVGOptions struct {
	Width, Height int
	Margin        float64
	ShowLabels    bool
	ShowLegend    bool
	Title         string
	RoadWidth     float64
	ElementRadius float64
}

// DefaultSVGOptions returns sane rendering defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:         1600,
		Height:        1600,
		Margin:        40,
		ShowLabels:    false,
		ShowLegend:    true,
		Title:         "",
		RoadWidth:     3,
		ElementRadius: 2,
	}
}

// projector maps world coordinates into canvas pixels, preserving aspect
// ratio and flipping Y (SVG's origin is top-left, world space is not).
type projector struct {
	offsetX, offsetY float64
	scale            float64
	canvasH          float64
	margin           float64
}

func newProjector(worldBounds geom.Bounds, opts SVGOptions) projector {
	availW := float64(opts.Width) - 2*opts.Margin
	availH := float64(opts.Height) - 2*opts.Margin
	scale := 1.0
	if worldBounds.Width > 0 && worldBounds.Height > 0 {
		sx := availW / worldBounds.Width
		sy := availH / worldBounds.Height
		scale = sx
		if sy < sx {
			scale = sy
		}
	}
	return projector{
		offsetX: worldBounds.X,
		offsetY: worldBounds.Y,
		scale:   scale,
		canvasH: float64(opts.Height),
		margin:  opts.Margin,
	}
}

func (p projector) point(pt geom.Point) (int, int) {
	x := p.margin + (pt.X-p.offsetX)*p.scale
	y := p.canvasH - p.margin - (pt.Y-p.offsetY)*p.scale
	return int(x), int(y)
}

// colorForType assigns a stable colour per type name by hashing it into a
// small deterministic palette; avoids a hardcoded per-domain-type table
// since city building/element type sets are configuration-driven.
var typePalette = []string{
	"#e07a5f", "#81b29a", "#f2cc8f", "#3d405b", "#9a8c98",
	"#4a6fa5", "#c1666b", "#4c9f70", "#c98a3a", "#5b7553",
}

func colorForType(name string) string {
	h := 0
	for _, r := range name {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return typePalette[h%len(typePalette)]
}

// ExportSVG renders a top-down view of the road network, buildings, and
// elements in real world coordinates (spec §4.J). Adapted from the
// teacher's ExportSVG: same SVGOptions-driven config object and
// deterministic-sorted-iteration idiom, but no force-directed/circular
// layout, since placements already have geometry.
func ExportSVG(roads *road.Manager, buildings *building.Manager, elements *element.Manager, worldBounds geom.Bounds, opts SVGOptions) ([]byte, error) {
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#16161e")

	proj := newProjector(worldBounds, opts)

	if opts.Title != "" {
		canvas.Text(opts.Width/2, int(opts.Margin/2), opts.Title,
			"text-anchor:middle;font-size:20px;fill:#eee;font-family:sans-serif")
	}

	drawRoads(canvas, roads, proj, opts)
	drawBuildings(canvas, buildings, proj, opts)
	drawElements(canvas, elements, proj, opts)

	if opts.ShowLegend {
		drawLegend(canvas, buildings, elements, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders and writes the SVG to filepath.
func SaveSVGToFile(roads *road.Manager, buildings *building.Manager, elements *element.Manager, worldBounds geom.Bounds, opts SVGOptions, filepath string) error {
	data, err := ExportSVG(roads, buildings, elements, worldBounds, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

func drawRoads(canvas *svg.SVG, roads *road.Manager, proj projector, opts SVGOptions) {
	if roads == nil {
		return
	}
	all := roads.All()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for _, r := range all {
		x1, y1 := proj.point(r.Segment.Start)
		x2, y2 := proj.point(r.Segment.End)
		width := opts.RoadWidth
		color := "#9a9ab0"
		if r.Segment.Highway {
			width *= 2
			color = "#f2e9e4"
		}
		canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", color, width))
	}
}

func drawBuildings(canvas *svg.SVG, buildings *building.Manager, proj projector, opts SVGOptions) {
	if buildings == nil {
		return
	}
	all := buildings.All()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for _, b := range all {
		corners := b.Bounds.Corners()
		xs := make([]int, 4)
		ys := make([]int, 4)
		for i, c := range corners {
			xs[i], ys[i] = proj.point(c)
		}
		style := fmt.Sprintf("fill:%s;fill-opacity:0.85;stroke:#000;stroke-width:1", colorForType(b.Type.Name))
		canvas.Polygon(xs, ys, style)
		if opts.ShowLabels {
			cx, cy := proj.point(b.Center)
			canvas.Text(cx, cy, b.Type.Name, "text-anchor:middle;font-size:9px;fill:#111")
		}
	}
}

func drawElements(canvas *svg.SVG, elements *element.Manager, proj projector, opts SVGOptions) {
	if elements == nil {
		return
	}
	all := elements.All()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for _, e := range all {
		cx, cy := proj.point(e.Center)
		r := int(opts.ElementRadius)
		if r < 1 {
			r = 1
		}
		canvas.Circle(cx, cy, r, fmt.Sprintf("fill:%s;stroke:#000;stroke-width:0.5", colorForType(e.Type.Name)))
	}
}

func drawLegend(canvas *svg.SVG, buildings *building.Manager, elements *element.Manager, opts SVGOptions) {
	names := make(map[string]bool)
	if buildings != nil {
		for _, b := range buildings.All() {
			names[b.Type.Name] = true
		}
	}
	if elements != nil {
		for _, e := range elements.All() {
			names[e.Type.Name] = true
		}
	}
	if len(names) == 0 {
		return
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	x, y := opts.Width-180, 40
	canvas.Rect(x-10, y-15, 170, 20+18*len(sorted), "fill:#000;fill-opacity:0.55;stroke:#fff;stroke-width:1")
	canvas.Text(x, y, "Types", "font-size:13px;fill:#eee;font-family:sans-serif")
	for i, n := range sorted {
		ly := y + 18*(i+1)
		canvas.Circle(x+6, ly-4, 6, fmt.Sprintf("fill:%s", colorForType(n)))
		canvas.Text(x+20, ly, n, "font-size:11px;fill:#ddd;font-family:sans-serif")
	}
}
