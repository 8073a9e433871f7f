package main

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const quadScene = `
width: 16
height: 8
background: [0, 0, 0, 1]
depth:
  format: depth16unorm
  func: less
triangles:
  - vertices: [[-1, -1, 0.5, 1], [1, -1, 0.5, 1], [1, 1, 0.5, 1]]
    colors: [[1, 0, 0, 1]]
  - vertices: [[-1, -1, 0.5, 1], [1, 1, 0.5, 1], [-1, 1, 0.5, 1]]
    colors: [[1, 0, 0, 1]]
  - vertices: [[-1, -1, 0, 1], [0, -1, 0, 1], [0, 1, 0, 1]]
    colors: [[0, 0, 1, 1]]
  - vertices: [[-1, -1, 0.9, 1], [1, -1, 0.9, 1], [1, 1, 0.9, 1]]
    colors: [[0, 1, 0, 1]]
`

func TestLoadSceneErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"no size", "width: 0\nheight: 4\n", "scene size"},
		{"unknown field", "width: 4\nheight: 4\ncolour: red\n", "decode scene"},
		{"bad colors", "width: 4\nheight: 4\ntriangles:\n  - colors: [[1,1,1,1],[1,1,1,1]]\n", "2 colors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScene(strings.NewReader(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadScene() err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRenderUnknownNames(t *testing.T) {
	for _, src := range []string{
		"width: 4\nheight: 4\ndepth:\n  format: rgba8\n",
		"width: 4\nheight: 4\ndepth:\n  format: depth16unorm\n  func: sometimes\n",
		"width: 4\nheight: 4\ncull:\n  mode: sideways\n",
		"width: 4\nheight: 4\ncull:\n  front: up\n",
	} {
		s, err := LoadScene(strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := s.Render(renderConfig{}); err == nil || !strings.Contains(err.Error(), "unknown") {
			t.Errorf("Render(%q) err = %v", src, err)
		}
	}
}

func TestRenderDepthOrder(t *testing.T) {
	s, err := LoadScene(strings.NewReader(quadScene))
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	for _, cfg := range []renderConfig{{}, {tiled: true, workers: 2}, {batch: 4}} {
		target, stats, err := s.Render(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Triangles != 4 {
			t.Errorf("%+v: Triangles = %d", cfg, stats.Triangles)
		}
		// The blue triangle is nearest; the green one is behind the red quad.
		if got := target.RGBAAt(1, 7); got != blue {
			t.Errorf("%+v: pixel (1, 7) = %v, want blue", cfg, got)
		}
		if got := target.RGBAAt(14, 1); got != red {
			t.Errorf("%+v: pixel (14, 1) = %v, want red", cfg, got)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(scenePath, []byte(quadScene), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-s", scenePath, "-o", out, "--scale", "3", "--tiled"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 24 {
		t.Errorf("image size %v, want 48x24", b)
	}
	if !strings.Contains(stdout.String(), "4 triangles") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunDemoAndFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "demo.png")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", out, "--debug"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "pipeline created") {
		t.Error("--debug produced no pipeline log")
	}

	for _, tt := range []struct {
		args []string
		code int
	}{
		{[]string{"--help"}, 0},
		{[]string{"--version"}, 0},
		{[]string{"--scale", "0"}, 2},
		{[]string{"--no-such-flag"}, 2},
		{[]string{"-s", filepath.Join(t.TempDir(), "missing.yaml")}, 1},
	} {
		stdout.Reset()
		stderr.Reset()
		if code := run(tt.args, &stdout, &stderr); code != tt.code {
			t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.code)
		}
	}
}
