// Package preprocess cleans a raw page raster for recognition. The
// whole package is pure: no I/O, no shared state, deterministic output
// for a given input image.
package preprocess

import (
	"image"
	"image/color"
	"sort"
)

// Enhancement constants tuned for Ethiopic book scans. Fixed across all
// images, not adaptive.
const (
	contrastFactor    = 1.5
	sharpnessFactor   = 1.2
	autocontrastCut   = 2 // percent clipped from each histogram end
	medianRadius      = 1 // 3x3 window
	blankLuminance    = 240
	blankSampleStride = 4
)

// Enhance converts a raw page raster into the grayscale image handed to
// the recognition engine. The stage order is fixed: contrast and
// sharpness before the autocontrast stretch, denoising last so the
// stretch does not re-amplify speckle.
func Enhance(img image.Image) *image.Gray {
	g := ToGray(img)
	g = adjustContrast(g, contrastFactor)
	g = sharpen(g, sharpnessFactor)
	g = autocontrast(g, autocontrastCut)
	g = medianFilter(g, medianRadius)
	return g
}

// ToGray converts any image to single-channel luminance.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		copy(out.Pix, g.Pix)
		return out
	}

	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// adjustContrast interpolates each pixel between the image mean and its
// original value. factor > 1 increases contrast.
func adjustContrast(g *image.Gray, factor float64) *image.Gray {
	if len(g.Pix) == 0 {
		return g
	}

	var sum uint64
	for _, p := range g.Pix {
		sum += uint64(p)
	}
	mean := float64(sum) / float64(len(g.Pix))

	out := image.NewGray(g.Bounds())
	for i, p := range g.Pix {
		out.Pix[i] = clamp(mean + factor*(float64(p)-mean))
	}
	return out
}

// sharpen interpolates between a smoothed copy and the original. The
// smoothing kernel is the usual 3x3 center-weighted blur; border pixels
// are carried over unchanged.
func sharpen(g *image.Gray, factor float64) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, g.Pix)
	if w < 3 || h < 3 {
		return out
	}

	at := func(x, y int) float64 {
		return float64(g.Pix[y*g.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			blur := (at(x-1, y-1) + at(x, y-1) + at(x+1, y-1) +
				at(x-1, y) + 5*at(x, y) + at(x+1, y) +
				at(x-1, y+1) + at(x, y+1) + at(x+1, y+1)) / 13
			out.Pix[y*out.Stride+x] = clamp(blur + factor*(at(x, y)-blur))
		}
	}
	return out
}

// autocontrast clips cutoff percent of pixels from each end of the
// histogram and stretches the remainder over the full range.
func autocontrast(g *image.Gray, cutoff int) *image.Gray {
	n := len(g.Pix)
	if n == 0 {
		return g
	}

	var hist [256]int
	for _, p := range g.Pix {
		hist[p]++
	}

	clip := n * cutoff / 100

	lo := 0
	for dropped := 0; lo < 255; lo++ {
		dropped += hist[lo]
		if dropped > clip {
			break
		}
	}
	hi := 255
	for dropped := 0; hi > 0; hi-- {
		dropped += hist[hi]
		if dropped > clip {
			break
		}
	}

	out := image.NewGray(g.Bounds())
	if hi <= lo {
		copy(out.Pix, g.Pix)
		return out
	}

	scale := 255.0 / float64(hi-lo)
	for i, p := range g.Pix {
		out.Pix[i] = clamp(float64(int(p)-lo) * scale)
	}
	return out
}

// medianFilter suppresses speckle noise while keeping edges. Border
// pixels are carried over unchanged.
func medianFilter(g *image.Gray, radius int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, g.Pix)
	if radius < 1 || w < 2*radius+1 || h < 2*radius+1 {
		return out
	}

	side := 2*radius + 1
	window := make([]uint8, 0, side*side)

	for y := radius; y < h-radius; y++ {
		for x := radius; x < w-radius; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				row := (y + dy) * g.Stride
				for dx := -radius; dx <= radius; dx++ {
					window = append(window, g.Pix[row+x+dx])
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.Pix[y*out.Stride+x] = window[len(window)/2]
		}
	}
	return out
}

// IsBlank reports whether an image is mostly white. Pixels are sampled
// on a stride for speed.
func IsBlank(img image.Image, threshold float64) bool {
	if threshold <= 0 {
		threshold = 0.99
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return true
	}

	sampled := 0
	white := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += blankSampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += blankSampleStride {
			sampled++
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y > blankLuminance {
				white++
			}
		}
	}
	if sampled == 0 {
		return true
	}

	return float64(white)/float64(sampled) >= threshold
}
