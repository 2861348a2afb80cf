// Package snapshot compares rendered frames against golden PNG files.
// A missing golden is created from the incoming image on first run;
// setting UPDATE_SNAPSHOTS=1 rewrites goldens instead of comparing.
package snapshot

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// DefaultTolerance is the allowed per-channel difference.
const DefaultTolerance = 3

// updateEnv rewrites goldens when set to 1.
const updateEnv = "UPDATE_SNAPSHOTS"

// Harness compares images against goldens under Dir/golden, writing
// mismatches to Dir/actual.
type Harness struct {
	Dir       string
	Tolerance int
}

// New creates a harness rooted at dir with the default tolerance.
func New(dir string) *Harness {
	return &Harness{Dir: dir, Tolerance: DefaultTolerance}
}

// Result reports one comparison.
type Result struct {
	Name string
	// Created means no golden existed and one was written from img.
	Created bool
	// Updated means UPDATE_SNAPSHOTS rewrote the golden.
	Updated bool
	// Match means the image was within tolerance of the golden.
	Match bool
	// Diff describes the mismatch when Match is false.
	Diff *Diff
}

// Diff locates the first offending pixel and summarizes the mismatch.
type Diff struct {
	FirstX, FirstY int
	Channel        int
	MaxDelta       int
	Count          int
}

func (d *Diff) String() string {
	return fmt.Sprintf("first at (%d,%d) channel %d, max delta %d, %d pixels differ",
		d.FirstX, d.FirstY, d.Channel, d.MaxDelta, d.Count)
}

// Compare checks img against the golden named name. A mismatch writes
// the image to Dir/actual/<name>.png for inspection.
func (h *Harness) Compare(name string, img *image.RGBA) (Result, error) {
	goldenPath := filepath.Join(h.Dir, "golden", name+".png")

	if os.Getenv(updateEnv) == "1" {
		if err := writePNG(goldenPath, img); err != nil {
			return Result{}, err
		}
		return Result{Name: name, Updated: true, Match: true}, nil
	}

	golden, err := readPNG(goldenPath)
	if os.IsNotExist(err) {
		if err := writePNG(goldenPath, img); err != nil {
			return Result{}, err
		}
		return Result{Name: name, Created: true, Match: true}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: read golden %s: %w", name, err)
	}

	if golden.Bounds().Dx() != img.Bounds().Dx() || golden.Bounds().Dy() != img.Bounds().Dy() {
		if err := writePNG(h.actualPath(name), img); err != nil {
			return Result{}, err
		}
		return Result{Name: name}, fmt.Errorf("snapshot: %s dimensions %dx%d, golden %dx%d",
			name, img.Bounds().Dx(), img.Bounds().Dy(),
			golden.Bounds().Dx(), golden.Bounds().Dy())
	}

	diff := diffImages(golden, img, h.Tolerance)
	if diff == nil {
		return Result{Name: name, Match: true}, nil
	}
	if err := writePNG(h.actualPath(name), img); err != nil {
		return Result{}, err
	}
	return Result{Name: name, Diff: diff}, nil
}

func (h *Harness) actualPath(name string) string {
	return filepath.Join(h.Dir, "actual", name+".png")
}

// diffImages compares two same-size images per channel, returning nil
// when every channel is within tolerance.
func diffImages(golden, img *image.RGBA, tolerance int) *Diff {
	var d *Diff
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gOff := golden.PixOffset(golden.Bounds().Min.X+x, golden.Bounds().Min.Y+y)
			iOff := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)

			pixelDiffers := false
			for c := 0; c < 4; c++ {
				delta := int(golden.Pix[gOff+c]) - int(img.Pix[iOff+c])
				if delta < 0 {
					delta = -delta
				}
				if delta <= tolerance {
					continue
				}
				if d == nil {
					d = &Diff{FirstX: x, FirstY: y, Channel: c}
				}
				if delta > d.MaxDelta {
					d.MaxDelta = delta
				}
				pixelDiffers = true
			}
			if pixelDiffers {
				d.Count++
			}
		}
	}
	return d
}

func readPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := decoded.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(decoded.Bounds())
	draw.Draw(rgba, rgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	return rgba, nil
}

func writePNG(path string, img *image.RGBA) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return nil
}
