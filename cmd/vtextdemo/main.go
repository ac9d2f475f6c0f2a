// Command vtextdemo lays out a text file in a virtualized view and writes
// PNG snapshots of the viewport.
//
// Without -script it renders the top of the document once. A script drives
// the view step by step (see package script):
//
//	vtextdemo -text novel.txt -script scroll.vts -vertical
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/vtext"
	"github.com/gogpu/vtext/script"
	"github.com/gogpu/vtext/shaping"
)

func main() {
	var (
		fontPath   = flag.String("font", "", "TTF/OTF font file (default Go Regular)")
		textPath   = flag.String("text", "", "text file to display (default built-in sample)")
		scriptPath = flag.String("script", "", "scenario script to run")
		width      = flag.Float64("width", 320, "view width in points")
		height     = flag.Float64("height", 480, "view height in points")
		scale      = flag.Float64("scale", 2, "device pixel density")
		fontSize   = flag.Float64("size", 16, "font size in points")
		vertical   = flag.Bool("vertical", false, "present the text vertically")
		output     = flag.String("out", "vtext.png", "output file when no script is given")
		verbose    = flag.Bool("v", false, "log layout passes")
	)
	flag.Parse()

	if *verbose {
		vtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	src, err := loadFont(*fontPath)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	orient := vtext.Horizontal
	if *vertical {
		orient = vtext.Vertical
	}
	v, err := vtext.New(src,
		vtext.WithSize(*width, *height),
		vtext.WithScale(*scale),
		vtext.WithFontSize(*fontSize),
		vtext.WithOrientation(orient),
	)
	if err != nil {
		log.Fatalf("Failed to create view: %v", err)
	}
	h := &host{View: v, scale: *scale}

	if *textPath != "" {
		if err := h.Load(*textPath); err != nil {
			log.Fatal(err)
		}
	} else {
		v.SetText(sampleText)
	}

	s, err := loadScript(*scriptPath, *output)
	if err != nil {
		log.Fatal(err)
	}
	if err := script.Run(s, h); err != nil {
		log.Fatal(err)
	}

	stats := v.CacheStats()
	log.Printf("Done: %d frames, %d surfaces cached (hit rate %.2f), extent %.1f\n",
		h.frames, stats.Len, stats.HitRate, v.Extent())
}

func loadFont(path string) (*shaping.FontSource, error) {
	if path == "" {
		return shaping.NewFontSource(goregular.TTF)
	}
	return shaping.NewFontSourceFromFile(path)
}

func loadScript(path, output string) (*script.Script, error) {
	if path == "" {
		return script.ParseString("default", fmt.Sprintf("layout\nrender %q\n", output))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return script.Parse(path, f)
}

// host adapts a View to script.Host with file-based Load and Render.
type host struct {
	*vtext.View
	scale  float64
	frames int
}

func (h *host) Load(path string) error {
	// #nosec G304 -- Text file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load text: %w", err)
	}
	h.SetText(string(data))
	return nil
}

func (h *host) Render(path string) error {
	size := h.Size()
	w := int(math.Ceil(size.Width * h.scale))
	ht := int(math.Ceil(size.Height * h.scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, ht))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if err := h.View.Render(dst); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	h.frames++
	log.Printf("Snapshot saved to %s (%dx%d, offset %.1f)\n", path, w, ht, h.Offset())
	return nil
}

var sampleText = strings.Repeat(`Virtualized layout shapes only the paragraphs that intersect the viewport.
Every paragraph becomes a fragment with its own render surface, and surfaces are cached by fragment identity, so scrolling back reuses what was already drawn.

`, 40)
