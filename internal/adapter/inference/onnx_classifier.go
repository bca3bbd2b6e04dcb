package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// ErrClassifierClosed is returned by Predict after Close
var ErrClassifierClosed = errors.New("classifier is closed")

// RuntimeSettings tune ONNX Runtime sessions
type RuntimeSettings struct {
	SharedLibraryPath string
	IntraOpThreads    int
	PoolSize          int
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// InitRuntime loads the ONNX Runtime shared library once per process
func InitRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if !ort.IsInitialized() {
			ortInitErr = ort.InitializeEnvironment()
		}
	})
	if ortInitErr != nil {
		return fmt.Errorf("initialize onnxruntime: %w", ortInitErr)
	}
	return nil
}

// DestroyRuntime releases the ONNX Runtime environment
func DestroyRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// onnxSession owns one session and its pre-allocated tensors
type onnxSession struct {
	session *ort.AdvancedSession
	input   ort.Value
	fill    func([]int64)
	output  *ort.Tensor[float32]
}

func (s *onnxSession) destroy() {
	_ = s.session.Destroy()
	_ = s.input.Destroy()
	_ = s.output.Destroy()
}

// ONNXClassifier runs a binary sigmoid model exported to ONNX. Sessions are
// pooled so concurrent requests never share tensors.
type ONNXClassifier struct {
	name     string
	seqLen   int
	sessions chan *onnxSession
	poolSize int

	mu     sync.RWMutex
	closed bool
}

var _ service.Classifier = (*ONNXClassifier)(nil)

// NewONNXClassifier opens poolSize sessions on the model at path.
// InitRuntime must have been called.
func NewONNXClassifier(name, path string, seqLen int, rt RuntimeSettings) (*ONNXClassifier, error) {
	if seqLen <= 0 {
		return nil, fmt.Errorf("invalid sequence length %d", seqLen)
	}
	poolSize := rt.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model io info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected exactly one model input, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, errors.New("model has no outputs")
	}
	in, out := inputs[0], outputs[0]

	c := &ONNXClassifier{
		name:     name,
		seqLen:   seqLen,
		sessions: make(chan *onnxSession, poolSize),
		poolSize: poolSize,
	}

	for i := 0; i < poolSize; i++ {
		s, err := newONNXSession(path, in, out, seqLen, rt.IntraOpThreads)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("create onnx session %d/%d: %w", i+1, poolSize, err)
		}
		c.sessions <- s
	}

	return c, nil
}

func newONNXSession(path string, in, out ort.InputOutputInfo, seqLen, intraThreads int) (*onnxSession, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()

	if intraThreads > 0 {
		if err := opts.SetIntraOpNumThreads(intraThreads); err != nil {
			return nil, fmt.Errorf("set intra threads: %w", err)
		}
	}

	input, fill, err := newInputTensor(in.DataType, ort.NewShape(1, int64(seqLen)))
	if err != nil {
		return nil, err
	}

	output, err := ort.NewEmptyTensor[float32](outputShape(out.Dimensions))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		path,
		[]string{in.Name},
		[]string{out.Name},
		[]ort.Value{input},
		[]ort.Value{output},
		opts,
	)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &onnxSession{
		session: session,
		input:   input,
		fill:    fill,
		output:  output,
	}, nil
}

// newInputTensor allocates the input in the element type the model expects
// and returns a function copying a token sequence into it.
func newInputTensor(dataType ort.TensorElementDataType, shape ort.Shape) (ort.Value, func([]int64), error) {
	switch dataType {
	case ort.TensorElementDataTypeInt64:
		t, err := ort.NewEmptyTensor[int64](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("allocate input tensor: %w", err)
		}
		return t, func(seq []int64) { copy(t.GetData(), seq) }, nil
	case ort.TensorElementDataTypeInt32:
		t, err := ort.NewEmptyTensor[int32](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("allocate input tensor: %w", err)
		}
		return t, func(seq []int64) { convertSequence(t.GetData(), seq) }, nil
	case ort.TensorElementDataTypeFloat:
		t, err := ort.NewEmptyTensor[float32](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("allocate input tensor: %w", err)
		}
		return t, func(seq []int64) { convertSequence(t.GetData(), seq) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported model input type %v", dataType)
	}
}

func convertSequence[T int32 | float32](dst []T, seq []int64) {
	for i := range dst {
		if i < len(seq) {
			dst[i] = T(seq[i])
		} else {
			dst[i] = 0
		}
	}
}

// outputShape replaces dynamic dimensions with the batch size of one
func outputShape(dims []int64) ort.Shape {
	if len(dims) == 0 {
		return ort.NewShape(1, 1)
	}
	shape := make([]int64, len(dims))
	for i, d := range dims {
		if d <= 0 {
			d = 1
		}
		shape[i] = d
	}
	return ort.Shape(shape)
}

// Predict returns the model's probability for sequence
func (c *ONNXClassifier) Predict(ctx context.Context, sequence []int64) (float64, error) {
	if len(sequence) != c.seqLen {
		return 0, fmt.Errorf("%s: sequence length %d, model expects %d", c.name, len(sequence), c.seqLen)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return 0, ErrClassifierClosed
	}

	var s *onnxSession
	select {
	case s = <-c.sessions:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { c.sessions <- s }()

	s.fill(sequence)
	if err := s.session.Run(); err != nil {
		return 0, fmt.Errorf("%s: onnx run: %w", c.name, err)
	}

	return probability(s.output.GetData())
}

// probability reads the sigmoid output of a single-unit head
func probability(raw []float32) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("model produced no output")
	}
	p := float64(raw[0])
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("model output %v is not a probability", p)
	}
	return p, nil
}

// Close releases all pooled sessions. It waits for in-flight predictions.
func (c *ONNXClassifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	for {
		select {
		case s := <-c.sessions:
			s.destroy()
		default:
			return
		}
	}
}
