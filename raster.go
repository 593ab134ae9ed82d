package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	backdropStrength = 0.03
	rimStrength      = 0.25
	keyRimStrength   = 0.05
)

type projected struct {
	x, y  float64
	depth float64
	color colorful.Color
	ok    bool
}

// Rasterizer is the render surface: it projects a Frame into a pixel grid
// twice as tall as the terminal and prints it with upper half blocks.
type Rasterizer struct {
	cache   *PerformanceCache
	verts   []projected
	hex     []lipgloss.Color
	renders uint64
}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{cache: NewPerformanceCache()}
}

// Render draws the frame into a width x height cell area. A zero area means
// there is no surface and nothing is drawn.
func (r *Rasterizer) Render(frame Frame, width, height int) string {
	if width <= 0 || height <= 0 || frame.Mesh == nil || len(frame.Vertices) == 0 {
		return ""
	}

	r.renders++
	pw, ph := width, height*2

	fb := r.cache.GetBuffer()
	defer r.cache.ReturnBuffer(fb)

	ambient := frame.Lights.Ambient
	fb.reset(pw, ph, func(y int) colorful.Color {
		// sky at the top, ground at the bottom
		t := float64(y) / float64(ph)
		c := ambient.Sky.BlendRgb(ambient.Ground, t)
		return scaleColor(c, backdropStrength*ambient.Intensity)
	})

	r.project(frame, pw, ph)

	idx := frame.Mesh.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := r.verts[idx[i]], r.verts[idx[i+1]], r.verts[idx[i+2]]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		drawTriangle(fb, a, b, c)
	}

	return r.toHalfBlocks(fb, width, height)
}

func (r *Rasterizer) project(frame Frame, pw, ph int) {
	if cap(r.verts) < len(frame.Vertices) {
		r.verts = make([]projected, len(frame.Vertices))
	}
	r.verts = r.verts[:len(frame.Vertices)]

	yaw := r3.NewRotation(frame.Yaw, r3.Vec{Y: 1})
	pitch := r3.NewRotation(frame.Pitch, r3.Vec{X: 1})

	cam := frame.Camera
	focal := 1 / math.Tan(cam.FOV*math.Pi/360)
	aspect := float64(pw) / float64(ph)

	for i, v := range frame.Vertices {
		world := pitch.Rotate(yaw.Rotate(v.Position))
		normal := pitch.Rotate(yaw.Rotate(frame.Mesh.Points[i].Normal))

		depth := cam.Position.Z - world.Z
		if depth <= 0.01 {
			r.verts[i] = projected{}
			continue
		}

		ndcX := world.X * focal / (depth * aspect)
		ndcY := world.Y * focal / depth

		toCamera := r3.Unit(r3.Sub(cam.Position, world))
		color := addColor(v.Color, rimAccent(frame.Lights, world, normal, toCamera))

		r.verts[i] = projected{
			x:     (ndcX + 1) * 0.5 * float64(pw),
			y:     (1 - ndcY) * 0.5 * float64(ph),
			depth: depth,
			color: color,
			ok:    true,
		}
	}
}

// rimAccent tints silhouette edges with the coloured point lights and
// brightens the side facing the directional key and fill lights.
func rimAccent(lights LightRig, pos, normal, toCamera r3.Vec) colorful.Color {
	rim := 1 - math.Abs(r3.Dot(normal, toCamera))
	rim = rim * rim * rim

	var out colorful.Color
	for _, pl := range lights.Points {
		facing := math.Max(0, r3.Dot(normal, r3.Unit(r3.Sub(pl.Position, pos))))
		out = addColor(out, scaleColor(pl.Color, pl.Intensity*facing*rim*rimStrength))
	}
	for _, dl := range lights.Directional {
		if r3.Norm(dl.Position) == 0 {
			continue
		}
		// directional lights shine from Position towards the origin
		facing := math.Max(0, r3.Dot(normal, r3.Unit(dl.Position)))
		v := dl.Intensity * facing * rim * keyRimStrength
		out = addColor(out, colorful.Color{R: v, G: v, B: v})
	}
	return out
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// drawTriangle fills pixel centres inside the triangle, interpolating colour
// and inverse depth.
func drawTriangle(fb *frameBuffer, a, b, c projected) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	minX := max(0, int(math.Floor(min(a.x, b.x, c.x))))
	maxX := min(fb.w-1, int(math.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(math.Floor(min(a.y, b.y, c.y))))
	maxY := min(fb.h-1, int(math.Ceil(max(a.y, b.y, c.y))))

	invA, invB, invC := 1/a.depth, 1/b.depth, 1/c.depth

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			depth := 1 / (w0*invA + w1*invB + w2*invC)
			i := y*fb.w + x
			if depth >= fb.depth[i] {
				continue
			}
			fb.depth[i] = depth
			fb.color[i] = colorful.Color{
				R: w0*a.color.R + w1*b.color.R + w2*c.color.R,
				G: w0*a.color.G + w1*b.color.G + w2*c.color.G,
				B: w0*a.color.B + w1*b.color.B + w2*c.color.B,
			}
		}
	}
}

// toHalfBlocks prints two pixel rows per terminal row: foreground is the
// top pixel, background the bottom one.
func (r *Rasterizer) toHalfBlocks(fb *frameBuffer, width, height int) string {
	sb := r.cache.GetBuilder()
	defer r.cache.ReturnBuilder(sb)

	// quantize every pixel once
	if cap(r.hex) < len(fb.color) {
		r.hex = make([]lipgloss.Color, len(fb.color))
	}
	r.hex = r.hex[:len(fb.color)]
	for i, c := range fb.color {
		r.hex[i] = toTerminal(c)
	}

	for row := 0; row < height; row++ {
		top := r.hex[(row*2)*fb.w : (row*2+1)*fb.w]
		bottom := r.hex[(row*2+1)*fb.w : (row*2+2)*fb.w]

		x := 0
		for x < width {
			// Group horizontal runs with same FG/BG
			start := x
			fg, bg := top[x], bottom[x]
			x++
			for x < width && top[x] == fg && bottom[x] == bg {
				x++
			}

			style := r.cache.GetStyleFGBG(fg, bg)
			sb.WriteString(style.Render(strings.Repeat("▀", x-start)))
		}
		if row < height-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// blankCanvas fills an area with spaces, used when there is nothing to draw.
func blankCanvas(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	return strings.TrimSuffix(strings.Repeat(line+"\n", height), "\n")
}
