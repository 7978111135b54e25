package classify

import (
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/stretchr/testify/require"
)

func TestDrawOverlay(t *testing.T) {
	img := makeTestImage(120, 90)
	before := append([]byte(nil), img.Pixels...)

	annotated := DrawOverlay(img, "aphids", 0.925)
	require.Equal(t, img.Width, annotated.Width)
	require.Equal(t, img.Height, annotated.Height)
	require.Equal(t, 3, annotated.NChan())

	// The source image is not touched
	require.Equal(t, before, img.Pixels)

	// The box outline and the label bar paint pure green somewhere
	green := 0
	for i := 0; i+2 < len(annotated.Pixels); i += 3 {
		if annotated.Pixels[i] == 0 && annotated.Pixels[i+1] == 200 && annotated.Pixels[i+2] == 0 {
			green++
		}
	}
	require.NotZero(t, green)

	jpg, err := CompressJPEG(annotated, 85)
	require.NoError(t, err)
	decoded, err := cimg.Decompress(jpg)
	require.NoError(t, err)
	require.Equal(t, annotated.Width, decoded.Width)
	require.Equal(t, annotated.Height, decoded.Height)
}
