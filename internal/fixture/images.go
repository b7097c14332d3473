package fixture

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
)

const imageSide = 48

// PlaceholderPNG draws a deterministic image for name: a two-tone diagonal
// gradient whose colors are derived from the name's hash. Avatars are
// drawn as a disc.
func PlaceholderPNG(name string) ([]byte, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()

	from := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 255}
	to := color.RGBA{R: 255 - from.R, G: 255 - from.G/2, B: 255 - from.B/3, A: 255}
	avatar := strings.HasPrefix(name, "avatar")

	img := image.NewRGBA(image.Rect(0, 0, imageSide, imageSide))
	c := imageSide / 2
	for y := range imageSide {
		for x := range imageSide {
			if avatar {
				dx, dy := x-c, y-c
				if dx*dx+dy*dy > c*c {
					img.Set(x, y, color.RGBA{A: 0})
					continue
				}
			}
			t := float64(x+y) / float64(2*(imageSide-1))
			img.Set(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
