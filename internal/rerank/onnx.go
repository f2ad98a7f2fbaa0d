//go:build onnx

package rerank

import (
	"context"
	"fmt"
	"sync"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	ort "github.com/yalue/onnxruntime_go"
)

const onnxAvailable = true

// ONNXCrossEncoder runs a local cross-encoder model via ONNX Runtime,
// scoring each pair with a single forward pass.
type ONNXCrossEncoder struct {
	session   *ort.AdvancedSession
	maxTokens int
	tokenizer embedclient.Tokenizer

	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXCrossEncoder creates a cross-encoder backed by the model at modelPath.
func NewONNXCrossEncoder(modelPath string, maxTokens int) (*ONNXCrossEncoder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tokenizer := &embedclient.SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tokenizer.Tokenize("", maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	outputData := make([]float32, 1)
	outputTensor, err := ort.NewTensor(ort.NewShape(1, 1), outputData)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXCrossEncoder{
		session:             session,
		maxTokens:           maxTokens,
		tokenizer:           tokenizer,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		outputTensor:        outputTensor,
	}, nil
}

// Score runs one forward pass per pair and returns the logits in order.
func (c *ONNXCrossEncoder) Score(ctx context.Context, pairs []Pair) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		inputIDs, attentionMask, tokenTypeIDs := c.tokenizer.Tokenize(p.Query+" [SEP] "+p.Doc, c.maxTokens)
		copy(c.inputIDsTensor.GetData(), inputIDs)
		copy(c.attentionMaskTensor.GetData(), attentionMask)
		copy(c.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

		if err := c.session.Run(); err != nil {
			return nil, fmt.Errorf("cross-encoder inference failed: %w", err)
		}
		scores[i] = float64(c.outputTensor.GetData()[0])
	}
	return scores, nil
}

// Close destroys the session and tensors.
func (c *ONNXCrossEncoder) Close() error {
	var err error
	if c.session != nil {
		err = c.session.Destroy()
	}
	c.inputIDsTensor.Destroy()
	c.attentionMaskTensor.Destroy()
	c.tokenTypeIDsTensor.Destroy()
	c.outputTensor.Destroy()
	return err
}
