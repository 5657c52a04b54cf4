package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/siherrmann/depmatch/model"
)

// Encode serializes an annotation as gzip compressed JSON.
func Encode(annotation *model.Annotation) ([]byte, error) {
	if annotation == nil {
		return nil, fmt.Errorf("annotation is nil")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(annotation); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("encode annotation: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode reads an annotation written by Encode.
func Decode(data []byte) (*model.Annotation, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress annotation: %w", err)
	}

	annotation := &model.Annotation{}
	if err := json.Unmarshal(raw, annotation); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}

	return annotation, nil
}
