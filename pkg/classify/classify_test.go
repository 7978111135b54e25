package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestSoftmax(t *testing.T) {
	logits := []float32{1, 2, 3}
	Softmax(logits)
	sum := float32(0)
	for _, v := range logits {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
		sum += v
	}
	require.InDelta(t, 1.0, sum, 0.001)
	// Normalization must preserve the ordering of the logits
	require.Greater(t, logits[2], logits[1])
	require.Greater(t, logits[1], logits[0])

	// Outputs that are already a probability distribution pass through untouched
	probs := []float32{0.7, 0.2, 0.1}
	Softmax(probs)
	require.Equal(t, []float32{0.7, 0.2, 0.1}, probs)

	// Large logits must not overflow to NaN
	big := []float32{900, 901, 902}
	Softmax(big)
	require.False(t, math32.IsNaN(big[0]))
	require.InDelta(t, 1.0, big[0]+big[1]+big[2], 0.001)
}

func TestRank(t *testing.T) {
	labels := []string{"aphids", "beetle", "bollworm", "mites"}
	dist := []float32{0.1, 0.6, 0.25, 0.05}

	top := Rank(dist, labels, 3)
	require.Len(t, top, 3)
	require.Equal(t, Prediction{Class: 1, Label: "beetle", Confidence: 0.6}, top[0])
	require.Equal(t, Prediction{Class: 2, Label: "bollworm", Confidence: 0.25}, top[1])
	require.Equal(t, Prediction{Class: 0, Label: "aphids", Confidence: 0.1}, top[2])

	// k beyond the number of classes clamps
	require.Len(t, Rank(dist, labels, 10), 4)

	// Ties resolve to the lower class index
	tied := Rank([]float32{0.5, 0.5}, []string{"a", "b"}, 2)
	require.Equal(t, 0, tied[0].Class)
	require.Equal(t, 1, tied[1].Class)
}

func TestMakeResult(t *testing.T) {
	labels := []string{"aphids", "beetle", "bollworm"}
	result, err := MakeResult([]float32{-1, 4, 2}, labels)
	require.NoError(t, err)
	require.Equal(t, result.Top[0], result.Primary)
	require.Equal(t, 1, result.Primary.Class)
	require.Equal(t, "beetle", result.Primary.Label)
	require.Len(t, result.Top, TopK)
	require.Len(t, result.Distribution, 3)
	sum := float32(0)
	for _, v := range result.Distribution {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
		sum += v
	}
	require.InDelta(t, 1.0, sum, 0.001)
	for i := 1; i < len(result.Top); i++ {
		require.LessOrEqual(t, result.Top[i].Confidence, result.Top[i-1].Confidence)
	}

	_, err = MakeResult(nil, labels)
	require.Error(t, err)
}

func TestModelConfig(t *testing.T) {
	def := DefaultModelConfig()
	require.Equal(t, "mobilenetv2", def.Architecture)
	require.Equal(t, 224, def.Width)
	require.Equal(t, 224, def.Height)
	require.Equal(t, LayoutNHWC, def.Layout)

	fn := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"architecture":"resnet50","width":299,"height":299,"layout":"nchw"}`), 0644))
	config, err := LoadModelConfig(fn)
	require.NoError(t, err)
	require.Equal(t, "resnet50", config.Architecture)
	require.Equal(t, 299, config.Width)
	require.Equal(t, 299, config.Height)
	require.Equal(t, LayoutNCHW, config.Layout)
	// Tensor names that the file omits fall back to the usual defaults
	require.Equal(t, "input", config.InputName)
	require.Equal(t, "output", config.OutputName)

	_, err = LoadModelConfig(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.Error(t, err)
}
