// Package avatar renders deterministic placeholder avatars. The same seed
// always produces the same image, so a user's generated avatar is stable
// across registrations in tests and re-renders.
package avatar

import (
	"bytes"
	"crypto/sha256"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	gridSize    = 5
	defaultSize = 200
)

// Generator renders identicon-style PNG avatars of a fixed pixel size.
type Generator struct {
	size int
}

func New(size int) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	return &Generator{size: size}
}

// Generate derives a horizontally mirrored 5x5 block pattern from the
// SHA-256 of the seed, scales it up and encodes it as PNG.
func (g *Generator) Generate(seed string) ([]byte, error) {
	sum := sha256.Sum256([]byte(seed))

	foreground := color.NRGBA{R: sum[0], G: sum[1], B: sum[2], A: 0xff}
	background := color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}

	grid := image.NewNRGBA(image.Rect(0, 0, gridSize, gridSize))
	for y := 0; y < gridSize; y++ {
		for x := 0; x <= gridSize/2; x++ {
			cell := background
			if sum[3+y*(gridSize/2+1)+x]%2 == 1 {
				cell = foreground
			}
			grid.SetNRGBA(x, y, cell)
			grid.SetNRGBA(gridSize-1-x, y, cell)
		}
	}

	bitmap := image.NewNRGBA(image.Rect(0, 0, g.size, g.size))
	draw.NearestNeighbor.Scale(bitmap, bitmap.Bounds(), grid, grid.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, bitmap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
