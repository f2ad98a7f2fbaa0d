//go:build !onnx

package rerank

import (
	"context"
	"errors"
)

const onnxAvailable = false

// ONNXCrossEncoder stub type when built without the onnx tag.
type ONNXCrossEncoder struct{}

// NewONNXCrossEncoder returns an error when built without the onnx tag.
func NewONNXCrossEncoder(_ string, _ int) (*ONNXCrossEncoder, error) {
	return nil, errors.New("ONNX cross-encoder requires building with -tags onnx and the onnxruntime shared library")
}

// Score never runs; NewONNXCrossEncoder always fails in this build.
func (c *ONNXCrossEncoder) Score(_ context.Context, _ []Pair) ([]float64, error) {
	return nil, errors.New("ONNX cross-encoder unavailable in this build")
}

// Close is a no-op stub.
func (c *ONNXCrossEncoder) Close() error { return nil }
