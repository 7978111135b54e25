package classify

import (
	"fmt"
	"image"

	"github.com/bmharper/cimg/v2"
	"github.com/fogleman/gg"
)

// The classifier looks at the whole frame, so the "detection box" is an
// indicative region, inset this fraction from each image border.
const overlayBoxInset = 0.1

// DrawOverlay returns a copy of img with the detection box and a
// "<pest> (NN.N%)" label drawn on it.
func DrawOverlay(img *cimg.Image, label string, confidence float32) *cimg.Image {
	rgba := toRGBA(img.ToRGB())
	dc := gg.NewContextForRGBA(rgba)

	w := float64(rgba.Rect.Dx())
	h := float64(rgba.Rect.Dy())
	x1 := w * overlayBoxInset
	y1 := h * overlayBoxInset
	boxW := w * (1 - 2*overlayBoxInset)
	boxH := h * (1 - 2*overlayBoxInset)

	dc.SetRGB255(0, 200, 0)
	dc.SetLineWidth(3)
	dc.DrawRectangle(x1, y1, boxW, boxH)
	dc.Stroke()

	text := fmt.Sprintf("%v (%.1f%%)", label, confidence*100)
	tw, th := dc.MeasureString(text)
	barH := th + 8
	barY := y1 - barH
	if barY < 0 {
		// No room above the box, so put the label inside it
		barY = y1
	}
	dc.DrawRectangle(x1, barY, tw+10, barH)
	dc.Fill()
	dc.SetRGB255(255, 255, 255)
	dc.DrawString(text, x1+5, barY+barH-5)

	return fromRGBA(rgba)
}

// CompressJPEG returns img encoded as JPEG
func CompressJPEG(img *cimg.Image, quality int) ([]byte, error) {
	return cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, quality, 0))
}

func toRGBA(img *cimg.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Pixels[y*img.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < img.Width; x++ {
			out[x*4] = src[x*3]
			out[x*4+1] = src[x*3+1]
			out[x*4+2] = src[x*3+2]
			out[x*4+3] = 255
		}
	}
	return dst
}

func fromRGBA(rgba *image.RGBA) *cimg.Image {
	width := rgba.Rect.Dx()
	height := rgba.Rect.Dy()
	dst := cimg.NewImage(width, height, cimg.PixelFormatRGB)
	for y := 0; y < height; y++ {
		src := rgba.Pix[y*rgba.Stride:]
		out := dst.Pixels[y*dst.Stride:]
		for x := 0; x < width; x++ {
			out[x*3] = src[x*4]
			out[x*3+1] = src[x*4+1]
			out[x*3+2] = src[x*4+2]
		}
	}
	return dst
}
