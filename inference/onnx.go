package inference

import (
	"image"
	"log"
	"os"
	"runtime"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-regions/images"
)

// ONNXConfig configures an ONNX Runtime backed centroid detector.
type ONNXConfig struct {
	// ModelPath is the path to the .onnx confidence map model.
	ModelPath string
	// LibraryPath overrides the ONNX Runtime shared library location.
	// Empty selects a platform default.
	LibraryPath string
	// InputName and OutputName are the model's tensor names.
	InputName  string
	OutputName string
	// InputScale is the resize factor from native to model input resolution.
	InputScale float32
	// OutputScale is the confidence map resolution relative to model input.
	OutputScale float32
	// DownBlocks is the number of 2x downsampling blocks in the
	// architecture; model input dimensions must divide by 2^DownBlocks.
	DownBlocks int
	// IntraOpThreads and InterOpThreads bound onnxruntime parallelism.
	// Zero uses the runtime defaults.
	IntraOpThreads int
	InterOpThreads int
}

// DefaultONNXConfig returns a config for a full resolution model with
// quarter resolution confidence maps.
func DefaultONNXConfig(modelPath string) ONNXConfig {
	return ONNXConfig{
		ModelPath:      modelPath,
		InputName:      "input",
		OutputName:     "confmaps",
		InputScale:     1.0,
		OutputScale:    0.25,
		DownBlocks:     4,
		IntraOpThreads: 4,
		InterOpThreads: 2,
	}
}

// ONNXDetector implements Detector on top of an ONNX Runtime session with
// dynamic batch dimensions.
type ONNXDetector struct {
	config  ONNXConfig
	session *ort.DynamicAdvancedSession
}

// NewONNXDetector loads the model and prepares an inference session.
//
// Arguments:
//   - config: Detector configuration. ModelPath must point to an existing
//     .onnx file.
//
// Returns:
//   - *ONNXDetector: Ready to serve Infer calls. Close it when done.
//   - error: If the runtime environment or session cannot be created.
func NewONNXDetector(config ONNXConfig) (*ONNXDetector, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, errors.Errorf("model file not found: %s", config.ModelPath)
	}

	if !ort.IsInitialized() {
		libPath := config.LibraryPath
		if libPath == "" {
			libPath = defaultSharedLibPath()
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initializing onnxruntime environment")
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()

	if config.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(config.IntraOpThreads); err != nil {
			return nil, errors.Wrap(err, "setting intra-op threads")
		}
	}
	if config.InterOpThreads > 0 {
		if err := options.SetInterOpNumThreads(config.InterOpThreads); err != nil {
			return nil, errors.Wrap(err, "setting inter-op threads")
		}
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return nil, errors.Wrap(err, "setting graph optimization level")
	}

	session, err := ort.NewDynamicAdvancedSession(
		config.ModelPath,
		[]string{config.InputName},
		[]string{config.OutputName},
		options,
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating onnxruntime session")
	}

	log.Printf("centroid detector initialized: model=%s input_scale=%.2f output_scale=%.2f",
		config.ModelPath, config.InputScale, config.OutputScale)

	return &ONNXDetector{config: config, session: session}, nil
}

// Infer implements Detector. The batch must contain same-sized images whose
// dimensions divide by 2^DownBlocks.
func (d *ONNXDetector) Infer(batch []image.Image) (*tensor.Dense, error) {
	if d.session == nil {
		return nil, errors.New("detector is closed")
	}
	if len(batch) == 0 {
		return nil, errors.New("cannot run inference on an empty batch")
	}

	in, err := images.BatchToTensor(batch)
	if err != nil {
		return nil, errors.Wrap(err, "preparing input tensor")
	}
	shape := in.Shape()
	inputShape := ort.NewShape(int64(shape[0]), int64(shape[1]), int64(shape[2]), int64(shape[3]))
	inputTensor, err := ort.NewTensor(inputShape, in.Data().([]float32))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}
	defer inputTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := d.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, errors.Wrap(err, "running inference")
	}
	defer outputs[0].Destroy()

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.Errorf("model output %q is not a float32 tensor", d.config.OutputName)
	}

	outShape := outTensor.GetShape()
	dims := make([]int, len(outShape))
	for i, s := range outShape {
		dims[i] = int(s)
	}

	// Copy out of the onnxruntime owned buffer before destroying it.
	data := make([]float32, len(outTensor.GetData()))
	copy(data, outTensor.GetData())

	return tensor.New(
		tensor.WithShape(dims...),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	), nil
}

// InputScale implements Detector.
func (d *ONNXDetector) InputScale() float32 { return d.config.InputScale }

// OutputScale implements Detector.
func (d *ONNXDetector) OutputScale() float32 { return d.config.OutputScale }

// InputDivisor implements Detector.
func (d *ONNXDetector) InputDivisor() int { return 1 << d.config.DownBlocks }

// Close releases the inference session.
func (d *ONNXDetector) Close() {
	if d.session != nil {
		d.session.Destroy()
		d.session = nil
		log.Printf("centroid detector closed: model=%s", d.config.ModelPath)
	}
}

// defaultSharedLibPath returns the ONNX Runtime library path for the current
// platform.
func defaultSharedLibPath() string {
	if path := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); path != "" {
		return path
	}
	switch runtime.GOOS {
	case "windows":
		return "third_party/onnxruntime.dll"
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.dylib"
		}
		return "third_party/onnxruntime_amd64.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.so"
		}
		return "third_party/onnxruntime.so"
	}
}
