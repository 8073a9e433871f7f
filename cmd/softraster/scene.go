package main

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/softraster"
	"github.com/gogpu/softraster/fragment"
	"github.com/gogpu/softraster/surface"
)

// Scene is a YAML description of a frame.
type Scene struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Background []float32 `yaml:"background"`

	Viewport *Box        `yaml:"viewport"`
	Scissor  *Box        `yaml:"scissor"`
	Depth    DepthState  `yaml:"depth"`
	Cull     CullState   `yaml:"cull"`
	Offset   OffsetState `yaml:"offset"`

	Triangles []Triangle `yaml:"triangles"`
	Lines     []Line     `yaml:"lines"`
	Points    []Point    `yaml:"points"`
}

// Box is a pixel rectangle.
type Box struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DepthState selects the depth buffer and test.
type DepthState struct {
	Format string   `yaml:"format"`
	Func   string   `yaml:"func"`
	Write  *bool    `yaml:"write"`
	Near   float32  `yaml:"near"`
	Far    *float32 `yaml:"far"`
}

// CullState selects face culling.
type CullState struct {
	Mode  string `yaml:"mode"`
	Front string `yaml:"front"`
}

// OffsetState is the polygon offset.
type OffsetState struct {
	Factor float32 `yaml:"factor"`
	Units  float32 `yaml:"units"`
}

// Triangle has clip-space positions and per-vertex RGBA colors.
type Triangle struct {
	Vertices [3][4]float32 `yaml:"vertices"`
	Colors   [][4]float32  `yaml:"colors"`
}

// Line is a clip-space segment.
type Line struct {
	From  [4]float32 `yaml:"from"`
	To    [4]float32 `yaml:"to"`
	Width float32    `yaml:"width"`
	Color [4]float32 `yaml:"color"`
}

// Point is a clip-space point sprite.
type Point struct {
	At    [4]float32 `yaml:"at"`
	Size  float32    `yaml:"size"`
	Color [4]float32 `yaml:"color"`
}

var (
	depthFormats = map[string]gputypes.TextureFormat{
		"":                     gputypes.TextureFormatUndefined,
		"none":                 gputypes.TextureFormatUndefined,
		"depth16unorm":         gputypes.TextureFormatDepth16Unorm,
		"depth24plus":          gputypes.TextureFormatDepth24Plus,
		"depth24plus-stencil8": gputypes.TextureFormatDepth24PlusStencil8,
		"depth32float":         gputypes.TextureFormatDepth32Float,
	}
	compareFuncs = map[string]gputypes.CompareFunction{
		"":              gputypes.CompareFunctionUndefined,
		"never":         gputypes.CompareFunctionNever,
		"less":          gputypes.CompareFunctionLess,
		"less-equal":    gputypes.CompareFunctionLessEqual,
		"equal":         gputypes.CompareFunctionEqual,
		"greater":       gputypes.CompareFunctionGreater,
		"not-equal":     gputypes.CompareFunctionNotEqual,
		"greater-equal": gputypes.CompareFunctionGreaterEqual,
		"always":        gputypes.CompareFunctionAlways,
	}
	cullModes = map[string]gputypes.CullMode{
		"":      gputypes.CullModeNone,
		"none":  gputypes.CullModeNone,
		"front": gputypes.CullModeFront,
		"back":  gputypes.CullModeBack,
	}
	frontFaces = map[string]gputypes.FrontFace{
		"":    gputypes.FrontFaceCCW,
		"ccw": gputypes.FrontFaceCCW,
		"cw":  gputypes.FrontFaceCW,
	}
)

func lookup[T any](m map[string]T, kind, name string) (T, error) {
	v, ok := m[strings.ToLower(name)]
	if !ok {
		return v, fmt.Errorf("unknown %s %q", kind, name)
	}
	return v, nil
}

// LoadScene decodes a YAML scene.
func LoadScene(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene size %dx%d: %w", s.Width, s.Height, surface.ErrSize)
	}
	for i, t := range s.Triangles {
		if n := len(t.Colors); n != 0 && n != 1 && n != 3 {
			return nil, fmt.Errorf("triangle %d: %d colors, want 1 or 3", i, n)
		}
	}
	return &s, nil
}

// options turns the scene state into pipeline options.
func (s *Scene) options() (gputypes.TextureFormat, []softraster.Option, error) {
	format, err := lookup(depthFormats, "depth format", s.Depth.Format)
	if err != nil {
		return 0, nil, err
	}
	fn, err := lookup(compareFuncs, "depth function", s.Depth.Func)
	if err != nil {
		return 0, nil, err
	}
	mode, err := lookup(cullModes, "cull mode", s.Cull.Mode)
	if err != nil {
		return 0, nil, err
	}
	front, err := lookup(frontFaces, "front face", s.Cull.Front)
	if err != nil {
		return 0, nil, err
	}

	far := float32(1)
	if s.Depth.Far != nil {
		far = *s.Depth.Far
	}
	opts := []softraster.Option{
		softraster.WithVaryings(4),
		softraster.WithEarlyDepth(fn),
		softraster.WithDepthRange(s.Depth.Near, far),
		softraster.WithCulling(mode, front),
		softraster.WithPolygonOffset(s.Offset.Factor, s.Offset.Units),
	}
	if s.Depth.Write != nil {
		opts = append(opts, softraster.WithDepthWrite(*s.Depth.Write))
	}
	if v := s.Viewport; v != nil {
		opts = append(opts, softraster.WithViewport(v.X, v.Y, v.Width, v.Height))
	}
	if b := s.Scissor; b != nil {
		opts = append(opts, softraster.WithScissor(softraster.Rect{X0: b.X, Y0: b.Y, X1: b.X + b.Width, Y1: b.Y + b.Height}))
	}
	return format, opts, nil
}

// renderer is the part of both pipelines the scene drives.
type renderer interface {
	DrawTriangle(v0, v1, v2 []float32) error
	DrawLine(v0, v1 []float32, width float32) error
	DrawPoint(v []float32, size float32) error
	ResolveDepth(b *fragment.Batch, i int) bool
	Flush()
	Close()
}

// renderConfig selects the pipeline.
type renderConfig struct {
	tiled   bool
	workers int
	batch   int
}

// Render draws the scene into a new target.
func (s *Scene) Render(cfg renderConfig) (*surface.Target, softraster.Stats, error) {
	format, opts, err := s.options()
	if err != nil {
		return nil, softraster.Stats{}, err
	}
	target, err := surface.New(s.Width, s.Height, format)
	if err != nil {
		return nil, softraster.Stats{}, err
	}
	target.Clear(toRGBA(s.Background))
	if target.Depth != nil {
		target.ClearDepth(target.MaxDepth())
	}
	if cfg.batch > 0 {
		opts = append(opts, softraster.WithBatchSize(cfg.batch))
	}

	var r renderer
	var stats func() softraster.Stats
	shade := func(b *fragment.Batch, prims *softraster.Primitives) {
		b.ForEachLive(func(i int) {
			if !r.ResolveDepth(b, i) {
				return
			}
			prim := prims.Get(b.Prim[i])
			var c [4]float32
			for k := range c {
				c[k] = prim.Interpolate(b, i, k)
			}
			target.SetRGBA(b.ColorOffset[i], toRGBA(c[:]))
		})
	}
	if cfg.tiled {
		tp, err := softraster.NewTiledPipeline(target, shade, append(opts, softraster.WithWorkers(cfg.workers))...)
		if err != nil {
			return nil, softraster.Stats{}, err
		}
		r, stats = tp, tp.Stats
	} else {
		p, err := softraster.NewPipeline(target, shade, opts...)
		if err != nil {
			return nil, softraster.Stats{}, err
		}
		r, stats = p, p.Stats
	}
	defer r.Close()

	for i, t := range s.Triangles {
		var v [3][]float32
		for k := range v {
			v[k] = vertex(t.Vertices[k], t.color(k))
		}
		if err := r.DrawTriangle(v[0], v[1], v[2]); err != nil {
			return nil, softraster.Stats{}, fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	for i, l := range s.Lines {
		if err := r.DrawLine(vertex(l.From, l.Color), vertex(l.To, l.Color), max(l.Width, 1)); err != nil {
			return nil, softraster.Stats{}, fmt.Errorf("line %d: %w", i, err)
		}
	}
	for i, p := range s.Points {
		if err := r.DrawPoint(vertex(p.At, p.Color), max(p.Size, 1)); err != nil {
			return nil, softraster.Stats{}, fmt.Errorf("point %d: %w", i, err)
		}
	}
	r.Flush()
	return target, stats(), nil
}

func (t Triangle) color(k int) [4]float32 {
	switch len(t.Colors) {
	case 0:
		return [4]float32{1, 1, 1, 1}
	case 1:
		return t.Colors[0]
	}
	return t.Colors[k]
}

// vertex packs a position and a color into a pipeline vertex.
func vertex(pos, c [4]float32) []float32 {
	if pos[3] == 0 {
		pos[3] = 1
	}
	return []float32{pos[0], pos[1], pos[2], pos[3], c[0], c[1], c[2], c[3]}
}

func toRGBA(c []float32) color.RGBA {
	ch := func(i int) uint8 {
		if i >= len(c) {
			return 255
		}
		v := c[i]
		switch {
		case !(v > 0):
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: ch(0), G: ch(1), B: ch(2), A: ch(3)}
}
