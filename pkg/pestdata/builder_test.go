package pestdata

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/bmharper/cimg/v2"
	"github.com/stretchr/testify/require"
)

func writeTestJPEG(t *testing.T, path string, shade byte) {
	img := cimg.NewImage(32, 24, cimg.PixelFormatRGB)
	for i := range img.Pixels {
		img.Pixels[i] = shade
	}
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, 90, 0))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, os.WriteFile(path, jpg, 0666))
}

func listTree(t *testing.T, root string) []string {
	found := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			found = append(found, rel)
		}
		return err
	})
	require.NoError(t, err)
	sort.Strings(found)
	return found
}

func makeTestSource(t *testing.T) string {
	src := filepath.Join(t.TempDir(), "raw")
	for i := 0; i < 5; i++ {
		writeTestJPEG(t, filepath.Join(src, "Aphids", "aphids ("+string(rune('a'+i))+").jpg"), byte(i*20))
	}
	for i := 0; i < 2; i++ {
		writeTestJPEG(t, filepath.Join(src, "grasshopper", "g"+string(rune('a'+i))+".jpg"), byte(100+i))
	}
	// Not a real image. It gets copied and split, then cleaned out.
	require.NoError(t, os.WriteFile(filepath.Join(src, "grasshopper", "broken.jpg"), []byte("not a jpeg"), 0666))
	// A bare images folder yields no class, so this one is ignored
	writeTestJPEG(t, filepath.Join(src, "images", "stray.jpg"), 50)
	return src
}

func TestBuilder(t *testing.T) {
	logger := logs.NewTestingLog(t)
	src := makeTestSource(t)
	out := filepath.Join(t.TempDir(), "processed_data")

	builder := NewBuilder(logger, []string{src, filepath.Join(src, "does-not-exist")}, out)
	stats, err := builder.Build()
	require.NoError(t, err)

	require.Equal(t, 2, stats.Classes)
	require.Equal(t, 8, stats.Images)
	require.Equal(t, 6, stats.Train)
	require.Equal(t, 2, stats.Val)
	require.Equal(t, 1, stats.Removed)
	require.Equal(t, 5, stats.PerClass["aphid"])
	require.Equal(t, 3, stats.PerClass["grasshopper"])

	// Unified tree: renamed copies, numbered from 0
	require.Equal(t, []string{"aphid_0.jpg", "aphid_1.jpg", "aphid_2.jpg", "aphid_3.jpg", "aphid_4.jpg"},
		listTree(t, filepath.Join(out, "images", "aphid")))

	// Discovery order gives aphid index 0 (Aphids sorts before grasshopper)
	mapping, err := LoadClassMapping(filepath.Join(out, "class_mapping.json"))
	require.NoError(t, err)
	require.Equal(t, []string{"aphid", "grasshopper"}, mapping.Classes())

	// Split plus clean leaves 7 of the 8 copies
	split := append(listTree(t, filepath.Join(out, "train")), listTree(t, filepath.Join(out, "val"))...)
	require.Len(t, split, 7)
}

func TestBuilderDeterministicSplit(t *testing.T) {
	src := makeTestSource(t)
	outA := filepath.Join(t.TempDir(), "a")
	outB := filepath.Join(t.TempDir(), "b")

	_, err := NewBuilder(logs.NewTestingLog(t), []string{src}, outA).Build()
	require.NoError(t, err)
	_, err = NewBuilder(logs.NewTestingLog(t), []string{src}, outB).Build()
	require.NoError(t, err)

	require.Equal(t, listTree(t, filepath.Join(outA, "val")), listTree(t, filepath.Join(outB, "val")))
	require.Equal(t, listTree(t, filepath.Join(outA, "train")), listTree(t, filepath.Join(outB, "train")))
}

func TestCleanTree(t *testing.T) {
	root := t.TempDir()
	writeTestJPEG(t, filepath.Join(root, "ok.jpg"), 128)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.jpg"), []byte("zzz"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep me"), 0666))

	removed, err := CleanTree(logs.NewTestingLog(t), root)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, []string{"notes.txt", "ok.jpg"}, listTree(t, root))
}
