package classify

import (
	"fmt"

	"github.com/bmharper/cimg/v2"
)

// DecodeRGB decodes a compressed image (JPEG or PNG), and returns it as 24-bit RGB.
// Grayscale and RGBA images are converted.
func DecodeRGB(blob []byte) (*cimg.Image, error) {
	img, err := cimg.Decompress(blob)
	if err != nil {
		return nil, err
	}
	return img.ToRGB(), nil
}

// ReadRGBFile reads an image file, and returns it as 24-bit RGB
func ReadRGBFile(filename string) (*cimg.Image, error) {
	img, err := cimg.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return img.ToRGB(), nil
}

// PrepareImage resizes img to width x height and writes normalized float32
// pixels into tensor, in the given layout. Pixel values are scaled by 1/255,
// which is what the MobileNetV2 transfer-learning model was trained with.
// The aspect ratio is NOT preserved: the whole frame is squashed to the model
// resolution, same as the training pipeline.
// tensor must have length width*height*3.
func PrepareImage(img *cimg.Image, width, height int, layout string, tensor []float32) error {
	if img.NChan() != 3 {
		return fmt.Errorf("PrepareImage needs an RGB image, not %v channels", img.NChan())
	}
	if len(tensor) != width*height*3 {
		return fmt.Errorf("Tensor size %v does not match %vx%vx3", len(tensor), width, height)
	}
	if img.Width != width || img.Height != height {
		img = cimg.ResizeNew(img, width, height, nil)
	}
	norm := float32(1.0 / 255.0)
	switch layout {
	case LayoutNHWC, "":
		i := 0
		for y := 0; y < height; y++ {
			row := img.Pixels[y*img.Stride : y*img.Stride+width*3]
			for _, v := range row {
				tensor[i] = float32(v) * norm
				i++
			}
		}
	case LayoutNCHW:
		planeSize := width * height
		for y := 0; y < height; y++ {
			row := img.Pixels[y*img.Stride:]
			for x := 0; x < width; x++ {
				j := y*width + x
				tensor[j] = float32(row[x*3]) * norm
				tensor[planeSize+j] = float32(row[x*3+1]) * norm
				tensor[2*planeSize+j] = float32(row[x*3+2]) * norm
			}
		}
	default:
		return fmt.Errorf("Unknown tensor layout '%v'", layout)
	}
	return nil
}
