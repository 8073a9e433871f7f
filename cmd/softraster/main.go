// Command softraster renders a YAML triangle scene to a PNG file.
package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/draw"

	"github.com/gogpu/softraster"
)

var version = "dev"

// demoScene is rendered when no scene file is given.
const demoScene = `
width: 320
height: 240
background: [0.08, 0.09, 0.12, 1]
depth:
  format: depth24plus
  func: less
cull:
  mode: back
  front: ccw
triangles:
  - vertices: [[-0.9, -0.8, 0.2, 1], [0.7, -0.8, 0.2, 1], [-0.1, 0.9, 0.2, 1]]
    colors: [[1, 0.2, 0.2, 1], [0.2, 1, 0.2, 1], [0.2, 0.2, 1, 1]]
  - vertices: [[-0.5, -0.9, -0.6, 1], [1.4, -0.2, 0.9, 1.5], [0.3, 0.7, -0.2, 1]]
    colors: [[1, 0.85, 0.2, 1]]
lines:
  - from: [-0.95, -0.95, -0.9, 1]
    to: [0.95, 0.95, -0.9, 1]
    width: 2
    color: [1, 1, 1, 1]
points:
  - at: [0.8, 0.8, 0, 1]
    size: 6
    color: [0, 1, 1, 1]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		scenePath   string
		output      string
		scale       int
		tiled       bool
		workers     int
		batch       int
		debugMode   bool
		showVersion bool
		showHelp    bool
	)

	fs := pflag.NewFlagSet("softraster", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&scenePath, "scene", "s", "", "Path to a YAML scene (default: built-in demo)")
	fs.StringVarP(&output, "output", "o", "softraster.png", "Output PNG file")
	fs.IntVar(&scale, "scale", 1, "Integer upscale factor for the output image (1-16)")
	fs.BoolVarP(&tiled, "tiled", "t", false, "Rasterize tiles on all cores")
	fs.IntVarP(&workers, "workers", "j", 0, "Worker count for --tiled (0=GOMAXPROCS)")
	fs.IntVar(&batch, "batch", softraster.DefaultBatchSize, "Fragment batch capacity")
	fs.BoolVar(&debugMode, "debug", false, "Log pipeline activity to stderr")
	fs.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showHelp {
		fmt.Fprintln(stdout, "Usage: softraster [flags]")
		fmt.Fprint(stdout, fs.FlagUsages())
		return 0
	}
	if showVersion {
		fmt.Fprintf(stdout, "softraster version %s\n", version)
		return 0
	}
	if scale < 1 || scale > 16 {
		fmt.Fprintf(stderr, "Error: scale %d out of range 1-16\n", scale)
		return 2
	}

	if debugMode {
		softraster.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer softraster.SetLogger(nil)
	}

	var src io.Reader = strings.NewReader(demoScene)
	if scenePath != "" {
		f, err := os.Open(scenePath)
		if err != nil {
			fmt.Fprintf(stderr, "Error opening scene: %v\n", err)
			return 1
		}
		defer f.Close()
		src = f
	}
	scene, err := LoadScene(src)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading scene: %v\n", err)
		return 1
	}

	target, stats, err := scene.Render(renderConfig{tiled: tiled, workers: workers, batch: batch})
	if err != nil {
		fmt.Fprintf(stderr, "Error rendering scene: %v\n", err)
		return 1
	}

	img := target.Image()
	if scale > 1 {
		img = upscale(img, scale)
	}
	if err := writePNG(output, img); err != nil {
		fmt.Fprintf(stderr, "Error writing image: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%s: %dx%d, %d triangles, %d fragments in %d batches\n",
		output, img.Bounds().Dx(), img.Bounds().Dy(), stats.Triangles, stats.Fragments, stats.Batches)
	return 0
}

// upscale enlarges img by an integer factor without filtering so pixel
// coverage stays visible.
func upscale(img *image.RGBA, scale int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
