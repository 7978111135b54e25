package classify

import (
	"fmt"
	"os"
	"sync"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/bmharper/cimg/v2"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initOnnxRuntime initializes the ONNX runtime environment once per process.
// We never destroy the environment; it lives until the process exits, so that
// classifiers can be created and closed freely (eg one per unit test).
func initOnnxRuntime() error {
	ortInitOnce.Do(func() {
		if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// OnnxClassifier runs the pest classification model with ONNX runtime.
// The session owns preallocated input/output tensors, so only one forward
// pass can run at a time.
type OnnxClassifier struct {
	config       *ModelConfig
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	runLock      sync.Mutex
}

// NewOnnxClassifier loads an ONNX model file.
// config must have Width, Height and Classes populated (the class list
// usually comes from the dataset's class mapping file).
// A warmup inference runs before returning, so a model whose inputs/outputs
// don't match the config fails here, at load time, rather than on the first
// request.
func NewOnnxClassifier(log logs.Log, modelFilename string, config *ModelConfig) (*OnnxClassifier, error) {
	if _, err := os.Stat(modelFilename); err != nil {
		return nil, fmt.Errorf("Model not found at %v: %w", modelFilename, err)
	}
	if len(config.Classes) == 0 {
		return nil, fmt.Errorf("Model config has no classes")
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("Model config has invalid resolution %vx%v", config.Width, config.Height)
	}
	config.applyDefaults()
	if err := initOnnxRuntime(); err != nil {
		return nil, fmt.Errorf("Failed to initialize ONNX runtime: %w", err)
	}

	var inputShape ort.Shape
	if config.Layout == LayoutNCHW {
		inputShape = ort.NewShape(1, 3, int64(config.Height), int64(config.Width))
	} else {
		inputShape = ort.NewShape(1, int64(config.Height), int64(config.Width), 3)
	}
	outputShape := ort.NewShape(1, int64(len(config.Classes)))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("Failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("Failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelFilename,
		[]string{config.InputName}, []string{config.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("Failed to create ONNX session for %v: %w", modelFilename, err)
	}

	c := &OnnxClassifier{
		config:       config,
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}

	// Warmup on a zero image. Catches class count / tensor name mismatches.
	if err := c.session.Run(); err != nil {
		c.Close()
		return nil, fmt.Errorf("Model %v failed warmup inference (%v classes, %vx%v): %w",
			modelFilename, len(config.Classes), config.Width, config.Height, err)
	}

	log.Infof("Loaded ONNX model %v (%v %vx%v, %v classes)",
		modelFilename, config.Architecture, config.Width, config.Height, len(config.Classes))
	return c, nil
}

func (c *OnnxClassifier) Config() *ModelConfig {
	return c.config
}

func (c *OnnxClassifier) ClassifyImage(img *cimg.Image) (*Result, error) {
	c.runLock.Lock()
	defer c.runLock.Unlock()

	if err := PrepareImage(img, c.config.Width, c.config.Height, c.config.Layout, c.inputTensor.GetData()); err != nil {
		return nil, err
	}
	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("Inference failed: %w", err)
	}
	// Copy the output, because the tensor buffer is reused by the next run
	raw := c.outputTensor.GetData()
	output := make([]float32, len(raw))
	copy(output, raw)
	return MakeResult(output, c.config.Classes)
}

func (c *OnnxClassifier) Close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
		c.inputTensor = nil
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
		c.outputTensor = nil
	}
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
}
