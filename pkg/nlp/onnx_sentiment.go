package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/newspulse/newspulse/pkg/config"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// ONNXSentiment runs an exported 3-class transformer sentiment model locally.
// The session binds its tensors once, so calls are serialized.
type ONNXSentiment struct {
	mu        sync.Mutex
	tk        *tokenizer.Tokenizer
	session   *ort.AdvancedSession
	inputIDs  *ort.Tensor[int64]
	attention *ort.Tensor[int64]
	output    *ort.Tensor[float32]
	seqLen    int
	padID     int64
	labels    []string
}

// NewONNXSentiment loads the tokenizer and model and prepares an inference session
func NewONNXSentiment(cfg config.ONNXConfig) (*ONNXSentiment, error) {
	if len(cfg.Labels) == 0 {
		return nil, errors.New("no sentiment labels configured")
	}
	if err := initializeORT(cfg.LibraryPath); err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", cfg.TokenizerPath, err)
	}

	shape := ort.NewShape(1, int64(cfg.SequenceLength))
	res := &ONNXSentiment{tk: tk, seqLen: cfg.SequenceLength, padID: int64(cfg.PadID), labels: cfg.Labels}

	if res.inputIDs, err = ort.NewEmptyTensor[int64](shape); err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	if res.attention, err = ort.NewEmptyTensor[int64](shape); err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	if res.output, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(cfg.Labels)))); err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("logits tensor: %w", err)
	}

	res.session, err = ort.NewAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask"}, []string{"logits"},
		[]ort.Value{res.inputIDs, res.attention}, []ort.Value{res.output}, nil)
	if err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("create onnx session for %s: %w", cfg.ModelPath, err)
	}
	return res, nil
}

// initializeORT loads the onnxruntime shared library once per process
func initializeORT(libPath string) error {
	ortInitOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = fmt.Errorf("initialize onnx runtime: %w", err)
		}
	})
	return ortInitErr
}

// Predict returns the label with the highest probability
func (o *ONNXSentiment) Predict(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	enc, err := o.tk.EncodeSingle(text, true)
	if err != nil {
		return "", fmt.Errorf("tokenize: %w", err)
	}
	ids, mask := padSequence(enc.Ids, o.seqLen, o.padID)

	o.mu.Lock()
	defer o.mu.Unlock()

	copy(o.inputIDs.GetData(), ids)
	copy(o.attention.GetData(), mask)
	if err := o.session.Run(); err != nil {
		return "", fmt.Errorf("onnx inference: %w", err)
	}

	logits := o.output.GetData()
	if len(logits) != len(o.labels) {
		return "", fmt.Errorf("unexpected logits length %d, expected %d", len(logits), len(o.labels))
	}
	probs := softmax(logits)
	return o.labels[argmax(probs)], nil
}

// Close releases the session and its tensors
func (o *ONNXSentiment) Close() error {
	var errs []error
	if o.session != nil {
		errs = append(errs, o.session.Destroy())
	}
	if o.inputIDs != nil {
		errs = append(errs, o.inputIDs.Destroy())
	}
	if o.attention != nil {
		errs = append(errs, o.attention.Destroy())
	}
	if o.output != nil {
		errs = append(errs, o.output.Destroy())
	}
	return errors.Join(errs...)
}

// padSequence truncates or right-pads token ids to a fixed length and builds the attention mask
func padSequence(ids []int, seqLen int, padID int64) (res, mask []int64) {
	res = make([]int64, seqLen)
	mask = make([]int64, seqLen)
	for i := range seqLen {
		if i < len(ids) {
			res[i] = int64(ids[i])
			mask[i] = 1
			continue
		}
		res[i] = padID
	}
	return res, mask
}

// softmax converts logits to probabilities without modifying the input
func softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits {
		maxLogit = max(maxLogit, v)
	}
	res := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		res[i] = float32(math.Exp(float64(v - maxLogit))) // shifted to avoid overflow
		sum += res[i]
	}
	for i := range res {
		res[i] /= sum
	}
	return res
}

func argmax(vals []float32) int {
	idx := 0
	for i, v := range vals {
		if v > vals[idx] {
			idx = i
		}
	}
	return idx
}
