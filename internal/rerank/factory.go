package rerank

// New returns a CrossEncoder for the given model configuration. When
// modelPath is empty, it falls back to the deterministic overlap scorer;
// otherwise it tries the ONNX backend, available only when built with
// -tags onnx.
func New(modelPath string, maxTokens int) (CrossEncoder, error) {
	if modelPath == "" {
		return NewOverlapCrossEncoder(), nil
	}
	return NewONNXCrossEncoder(modelPath, maxTokens)
}

// IsONNXAvailable reports whether the binary was built with ONNX support.
func IsONNXAvailable() bool {
	return onnxAvailable
}
