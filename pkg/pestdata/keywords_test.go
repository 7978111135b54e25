package pestdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPath(t *testing.T) {
	cases := []struct {
		dir    string
		expect string
	}{
		{"data/crop_pest/Aphids/train", "aphid"},
		{"data/ag_pests/red spider mite/images", "mite"},
		{"data/crop_pest/BOLLWORM", "bollworm"},
		// First keyword in the list wins
		{"data/x/beetle mite", "beetle"},
		// No keyword: leaf folder becomes the class
		{"data/ag_pests/grasshopper", "grasshopper"},
		{"data/ag_pests/Grasshopper", "grasshopper"},
		// A bare images folder is not a class
		{"data/somepests/images", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expect, ClassifyPath(c.dir), "dir %v", c.dir)
	}
}

func TestIsImageFilename(t *testing.T) {
	require.True(t, IsImageFilename("bug.jpg"))
	require.True(t, IsImageFilename("bug.JPG"))
	require.True(t, IsImageFilename("bug.jpeg"))
	require.True(t, IsImageFilename("bug.png"))
	require.False(t, IsImageFilename("bug.gif"))
	require.False(t, IsImageFilename("notes.txt"))
	require.False(t, IsImageFilename("noextension"))
}
