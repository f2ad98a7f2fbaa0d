package embedclient

// New returns an Embedder for the given model configuration. When modelPath
// is empty, it falls back to the deterministic HashEmbedder so the pipeline
// runs without a deployed ONNX model; otherwise it tries the ONNX backend,
// which only succeeds in binaries built with -tags onnx.
func New(modelPath string, dimensions, maxTokens, cacheSize int) (Embedder, error) {
	if modelPath == "" {
		return NewHashEmbedder(dimensions, cacheSize), nil
	}
	return NewONNXEmbedder(modelPath, dimensions, maxTokens, cacheSize)
}

// IsONNXAvailable reports whether the binary was built with ONNX support.
func IsONNXAvailable() bool {
	return onnxAvailable
}
