package ai

import (
	"fmt"
	"os"
	"posecam/internal/config"
	"posecam/internal/logger"
	"posecam/internal/model"

	"github.com/mattn/go-tflite"
)

const (
	heatmapOutput = 0
	offsetOutput  = 1
)

// Engine runs the pose model. Input returns the buffer to fill before Invoke;
// Outputs returns the heatmap and offset produced by the last Invoke.
type Engine interface {
	Input() []float32
	Invoke() error
	Outputs() (heatmap []float32, offset []float32, err error)
	Close() error
}

// TFLiteEngine runs a PoseNet .tflite model through the TensorFlow Lite C API.
type TFLiteEngine struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	input       *tflite.Tensor
	heatmap     *tflite.Tensor
	offset      *tflite.Tensor
	logger      *logger.Logger
}

// NewTFLiteEngine loads the model, allocates its tensors and checks that the
// input and output tensors match the shapes the decoder expects.
func NewTFLiteEngine(config *config.Config, logger *logger.Logger) (*TFLiteEngine, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}

	e := &TFLiteEngine{logger: logger}

	e.model = tflite.NewModelFromFile(config.ModelPath)
	if e.model == nil {
		return nil, fmt.Errorf("failed to load model %s", config.ModelPath)
	}

	e.options = tflite.NewInterpreterOptions()
	threads := config.InferenceThreads
	if threads < 1 {
		threads = 1
	}
	e.options.SetNumThread(threads)
	e.options.SetErrorReporter(func(msg string, _ interface{}) {
		logger.Error("tflite: %s", msg)
	}, nil)

	e.interpreter = tflite.NewInterpreter(e.model, e.options)
	if e.interpreter == nil {
		e.Close()
		return nil, fmt.Errorf("failed to create interpreter")
	}

	if status := e.interpreter.AllocateTensors(); status != tflite.OK {
		e.Close()
		return nil, fmt.Errorf("failed to allocate tensors: status %d", status)
	}

	if err := e.bindTensors(); err != nil {
		e.Close()
		return nil, err
	}

	logger.Info("Pose model loaded: %s (%d thread(s))", config.ModelPath, threads)
	return e, nil
}

// bindTensors resolves input 0, output 0 (heatmap) and output 1 (offset).
// The output order is fixed by the bundled model file.
func (e *TFLiteEngine) bindTensors() error {
	if n := e.interpreter.GetInputTensorCount(); n < 1 {
		return fmt.Errorf("model has no input tensor")
	}
	if n := e.interpreter.GetOutputTensorCount(); n < 2 {
		return fmt.Errorf("model has %d output tensor(s), want at least 2", n)
	}

	e.input = e.interpreter.GetInputTensor(0)
	e.heatmap = e.interpreter.GetOutputTensor(heatmapOutput)
	e.offset = e.interpreter.GetOutputTensor(offsetOutput)

	checks := []struct {
		name   string
		tensor *tflite.Tensor
		want   int
	}{
		{"input", e.input, model.TensorLen},
		{"heatmap", e.heatmap, model.HeatmapLen},
		{"offset", e.offset, model.OffsetLen},
	}
	for _, c := range checks {
		if c.tensor.Type() != tflite.Float32 {
			return fmt.Errorf("%s tensor has type %v, want float32", c.name, c.tensor.Type())
		}
		if got := tensorLen(c.tensor); got != c.want {
			return fmt.Errorf("%s tensor has %d values, want %d", c.name, got, c.want)
		}
	}
	return nil
}

func tensorLen(t *tflite.Tensor) int {
	n := 1
	for i := 0; i < t.NumDims(); i++ {
		n *= t.Dim(i)
	}
	return n
}

// Input returns the model's input buffer. It stays valid for the engine's lifetime.
func (e *TFLiteEngine) Input() []float32 {
	return e.input.Float32s()
}

// Invoke runs the model. It blocks for the full inference time.
func (e *TFLiteEngine) Invoke() error {
	if status := e.interpreter.Invoke(); status != tflite.OK {
		return fmt.Errorf("failed to invoke interpreter: status %d", status)
	}
	return nil
}

// Outputs returns read-only views of the heatmap and offset tensors.
func (e *TFLiteEngine) Outputs() ([]float32, []float32, error) {
	heatmap := e.heatmap.Float32s()
	offset := e.offset.Float32s()
	if heatmap == nil || offset == nil {
		return nil, nil, fmt.Errorf("output tensors are not float32")
	}
	return heatmap, offset, nil
}

// Close releases the interpreter, options and model.
func (e *TFLiteEngine) Close() error {
	if e.interpreter != nil {
		e.interpreter.Delete()
		e.interpreter = nil
	}
	if e.options != nil {
		e.options.Delete()
		e.options = nil
	}
	if e.model != nil {
		e.model.Delete()
		e.model = nil
	}
	return nil
}
