// Package render holds raster helpers shared by the spray engine and the
// gallery sheet: box blur, drop shadows, frame borders and labels.
package render

import "image"

// BlurGray returns a box-blurred copy of src. The blur runs as two separable
// passes over prefix sums so cost does not grow with radius. Pixels near the
// edge average over the in-bounds part of the window only.
func BlurGray(src *image.Gray, radius int) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	if radius <= 0 {
		copy(dst.Pix, src.Pix)
		return dst
	}
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)

	n := w
	if h > n {
		n = h
	}
	prefix := make([]int, n+1)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		out := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w]
		for x := 0; x < w; x++ {
			lo, hi := window(x, radius, w)
			out[x] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			lo, hi := window(y, radius, h)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
	}
	return dst
}

func window(i, radius, n int) (int, int) {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}
