// Package classify is the image classification inference layer.
// It wraps a pretrained pest classifier that was exported to ONNX,
// and turns an image into a ranked list of (class, confidence).
package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
)

// DefaultConfidenceThreshold is the softmax probability below which callers
// normally treat a prediction as "no pest detected". The threshold is applied
// by callers, never by the classifier itself.
const DefaultConfidenceThreshold = 0.3

// TopK is the number of ranked predictions that a classification returns.
const TopK = 3

const (
	LayoutNHWC = "nhwc" // Keras/TensorFlow exports
	LayoutNCHW = "nchw" // PyTorch exports
)

// ModelConfig is saved in a JSON file along with the weights of the NN model.
// Classes may be empty, in which case the class names come from the dataset's
// class mapping file.
type ModelConfig struct {
	Architecture string   `json:"architecture"` // eg "mobilenetv2"
	Width        int      `json:"width"`        // eg 224
	Height       int      `json:"height"`       // eg 224
	Layout       string   `json:"layout"`       // "nhwc" or "nchw". Empty means "nhwc".
	InputName    string   `json:"inputName"`    // ONNX graph input name. Empty means "input".
	OutputName   string   `json:"outputName"`   // ONNX graph output name. Empty means "output".
	Classes      []string `json:"classes"`
}

// DefaultModelConfig returns the config of the stock transfer-learning model,
// for model files that ship without a sidecar JSON.
func DefaultModelConfig() *ModelConfig {
	return &ModelConfig{
		Architecture: "mobilenetv2",
		Width:        224,
		Height:       224,
		Layout:       LayoutNHWC,
		InputName:    "input",
		OutputName:   "output",
	}
}

// Load model config from a JSON file
func LoadModelConfig(filename string) (*ModelConfig, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config := &ModelConfig{}
	if err := json.Unmarshal(b, config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

func (c *ModelConfig) applyDefaults() {
	if c.Layout == "" {
		c.Layout = LayoutNHWC
	}
	if c.InputName == "" {
		c.InputName = "input"
	}
	if c.OutputName == "" {
		c.OutputName = "output"
	}
}

// Prediction is one class with its softmax probability
type Prediction struct {
	Class      int     `json:"class"`
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

// Result of classifying one image.
// Results are transient. They are computed per request and returned to the
// caller; persisting them is the caller's business.
type Result struct {
	Primary      Prediction   `json:"primary"`
	Top          []Prediction `json:"top"`          // The TopK best predictions, descending by confidence. Top[0] == Primary.
	Distribution []float32    `json:"distribution"` // Softmax probability per class index. Sums to ~1.
}

// Classifier is given an image, and returns a ranked classification
type Classifier interface {
	// Close closes the classifier (you MUST call this when finished, because there's a C++ session underneath)
	Close()

	// ClassifyImage runs one forward pass on the image.
	// The image may be any size; the classifier resizes it to the model resolution.
	// nchan must be 3 (24-bit RGB).
	ClassifyImage(img *cimg.Image) (*Result, error)

	// Model Config.
	// Callers assume that ModelConfig will remain constant, so don't change it
	// once the classifier has been created.
	Config() *ModelConfig
}

// Softmax converts raw model outputs into a probability distribution, in place.
// If the outputs already look like a probability distribution (all values in
// [0,1], summing to ~1, which is what you get when the exported graph ends in
// a softmax layer), then they are left alone.
func Softmax(logits []float32) {
	if IsProbabilityDistribution(logits) {
		return
	}
	maxv := math32.Inf(-1)
	for _, v := range logits {
		if v > maxv {
			maxv = v
		}
	}
	var sum float32
	for i, v := range logits {
		e := math32.Exp(v - maxv)
		logits[i] = e
		sum += e
	}
	if sum == 0 {
		return
	}
	for i := range logits {
		logits[i] /= sum
	}
}

// IsProbabilityDistribution returns true if all values lie in [0,1] and the sum is close to 1
func IsProbabilityDistribution(values []float32) bool {
	var sum float32
	for _, v := range values {
		if v < 0 || v > 1 {
			return false
		}
		sum += v
	}
	return math32.Abs(sum-1) < 0.01
}

// Rank returns the k best predictions, descending by confidence.
// Ties are broken by the lower class index, so ranking is deterministic.
func Rank(dist []float32, labels []string, k int) []Prediction {
	if k > len(dist) {
		k = len(dist)
	}
	order := make([]int, len(dist))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dist[order[a]] > dist[order[b]]
	})
	top := make([]Prediction, 0, k)
	for _, cls := range order[:k] {
		label := ""
		if cls < len(labels) {
			label = labels[cls]
		}
		top = append(top, Prediction{
			Class:      cls,
			Label:      label,
			Confidence: dist[cls],
		})
	}
	return top
}

// MakeResult builds a Result from a raw model output vector.
// The vector is softmaxed in place if it isn't already a distribution.
func MakeResult(output []float32, labels []string) (*Result, error) {
	if len(output) == 0 {
		return nil, fmt.Errorf("Classifier produced an empty output vector")
	}
	Softmax(output)
	top := Rank(output, labels, TopK)
	return &Result{
		Primary:      top[0],
		Top:          top,
		Distribution: output,
	}, nil
}
