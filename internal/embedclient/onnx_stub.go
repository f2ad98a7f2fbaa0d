//go:build !onnx

package embedclient

import (
	"context"
	"errors"
)

const onnxAvailable = false

// ONNXEmbedder stub type when built without the onnx tag (see onnx.go for
// the real implementation).
type ONNXEmbedder struct{}

// NewONNXEmbedder returns an error when built without the onnx tag.
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, errors.New("ONNX embedder requires building with -tags onnx and the onnxruntime shared library")
}

// Embed never runs; NewONNXEmbedder always fails in this build.
func (e *ONNXEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("ONNX embedder unavailable in this build")
}

// EmbedBatch never runs; NewONNXEmbedder always fails in this build.
func (e *ONNXEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("ONNX embedder unavailable in this build")
}

// Dimensions is 0 in this build.
func (e *ONNXEmbedder) Dimensions() int { return 0 }

// Close is a no-op stub.
func (e *ONNXEmbedder) Close() error { return nil }
