// Command quadsnap renders the built-in snapshot scenes offscreen and
// checks them against golden images. Run with -update (or
// UPDATE_SNAPSHOTS=1) to refresh the goldens after an intentional
// rendering change.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/recording"
	"github.com/gogpu/quad/snapshot"
	"golang.org/x/image/font/gofont/goregular"
)

type scene struct {
	name   string
	width  float32
	height float32
	dpi    float32
	render func(e *quad.Engine) error
}

var scenes = []scene{
	{"shapes", 200, 150, 1, renderShapes},
	{"sprites", 200, 150, 1, renderSprites},
	{"clip", 200, 150, 1, renderClip},
	{"text", 240, 120, 1, renderText},
	{"hidpi", 120, 90, 2, renderShapes},
}

func main() {
	var (
		dir    = flag.String("dir", "snapshot/testdata", "snapshot directory")
		update = flag.Bool("update", false, "rewrite goldens instead of comparing")
		replay = flag.String("replay", "", "input recording to replay as extra scenes")
		only   = flag.String("only", "", "run a single scene by name")
	)
	flag.Parse()

	if *update {
		_ = os.Setenv("UPDATE_SNAPSHOTS", "1")
	}
	h := snapshot.New(*dir)

	failed := 0
	for _, s := range scenes {
		if *only != "" && s.name != *only {
			continue
		}
		if err := runScene(h, s); err != nil {
			log.Printf("FAIL %s: %v", s.name, err)
			failed++
		}
	}

	if *replay != "" {
		if err := runReplay(h, *replay); err != nil {
			log.Printf("FAIL replay: %v", err)
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("%d scene(s) failed", failed)
	}
}

func runScene(h *snapshot.Harness, s scene) error {
	e, err := quad.New(quad.Offscreen(), quad.Size{Width: s.width, Height: s.height}, s.dpi)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if err := e.BeginFrame(); err != nil {
		return err
	}
	if err := s.render(e); err != nil {
		return err
	}
	if err := e.EndFrame(); err != nil {
		return err
	}

	img, err := e.ReadPixels()
	if err != nil {
		return err
	}
	return report(h, s.name, img)
}

func report(h *snapshot.Harness, name string, img *image.RGBA) error {
	res, err := h.Compare(name, img)
	if err != nil {
		return err
	}
	switch {
	case res.Created:
		log.Printf("NEW  %s", name)
	case res.Updated:
		log.Printf("UPD  %s", name)
	case res.Match:
		log.Printf("OK   %s", name)
	default:
		return fmt.Errorf("mismatch: %s", res.Diff)
	}
	return nil
}

func renderShapes(e *quad.Engine) error {
	if err := e.DrawRect(quad.Rect(10, 10, 80, 60), quad.RectStyle{
		Fill:         quad.Color{0.2, 0.5, 0.9, 1},
		CornerRadius: 12,
		Z:            1,
	}); err != nil {
		return err
	}
	if err := e.DrawRect(quad.Rect(50, 40, 80, 60), quad.RectStyle{
		Fill:            quad.Color{0.9, 0.4, 0.2, 1},
		BorderThickness: 3,
		BorderColor:     quad.White,
		Z:               2,
	}); err != nil {
		return err
	}
	return e.DrawRect(quad.Rect(120, 20, 60, 60), quad.RectStyle{
		Fill:         quad.Color{0.3, 0.8, 0.3, 1},
		CornerRadius: 30,
		Z:            1,
	})
}

func renderSprites(e *quad.Engine) error {
	tex, err := e.CreateTextureFromPixels(checkerboard(16, 16, 4))
	if err != nil {
		return err
	}
	if err := e.DrawTexture(tex, quad.Position{X: 20, Y: 20}, quad.DrawParams{Scale: 3}); err != nil {
		return err
	}
	if err := e.DrawTexture(tex, quad.Position{X: 90, Y: 20}, quad.DrawParams{
		Scale: 3,
		Tint:  quad.Color{1, 0.4, 0.4, 1},
	}); err != nil {
		return err
	}
	return e.DrawTexture(tex, quad.Position{X: 60, Y: 80}, quad.DrawParams{
		Scale:    3,
		Rotation: math.Pi / 4,
	})
}

func renderClip(e *quad.Engine) error {
	if err := e.PushClip(quad.Rect(40, 30, 120, 90)); err != nil {
		return err
	}
	if err := e.DrawRect(quad.Rect(0, 0, 200, 150), quad.RectStyle{
		Fill: quad.Color{0.8, 0.8, 0.2, 1},
	}); err != nil {
		return err
	}
	if err := e.PushClip(quad.Rect(60, 50, 40, 30)); err != nil {
		return err
	}
	if err := e.DrawRect(quad.Rect(0, 0, 200, 150), quad.RectStyle{
		Fill: quad.Color{0.2, 0.2, 0.9, 1},
		Z:    1,
	}); err != nil {
		return err
	}
	if err := e.PopClip(); err != nil {
		return err
	}
	return e.PopClip()
}

func renderText(e *quad.Engine) error {
	if err := e.LoadFontFromBytes(goregular.TTF, 16, "regular"); err != nil {
		return err
	}
	return e.QueueText("quadsnap golden text", "regular", quad.Position{}, quad.TextContainer{
		Rect:      quad.Rect(10, 10, 220, 100),
		HAlign:    quad.AlignCenter,
		VAlign:    quad.AlignMiddle,
		WrapWords: true,
	})
}

// runReplay renders one frame per recorded input, using the cursor to
// place a marker sprite, and snapshots each frame.
func runReplay(h *snapshot.Harness, path string) error {
	p, err := recording.LoadJSON(path)
	if err != nil {
		return err
	}

	e, err := quad.New(quad.Offscreen(), quad.Size{Width: 200, Height: 150}, 1)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	tex, err := e.CreateTextureFromPixels(checkerboard(8, 8, 2))
	if err != nil {
		return err
	}

	for in, ok := p.Next(); ok; in, ok = p.Next() {
		if err := e.BeginFrame(); err != nil {
			return err
		}
		if err := e.DrawTexture(tex, quad.Position{X: in.CursorX, Y: in.CursorY}, quad.DrawParams{Scale: 2}); err != nil {
			return err
		}
		if err := e.EndFrame(); err != nil {
			return err
		}
		img, err := e.ReadPixels()
		if err != nil {
			return err
		}
		if err := report(h, fmt.Sprintf("replay_%04d", in.Frame), img); err != nil {
			return err
		}
	}
	return nil
}

func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{40, 40, 40, 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{230, 230, 230, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
