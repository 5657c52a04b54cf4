package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// FileCache stores every annotation in a file whose path is the key.
type FileCache struct{}

// NewFileCache creates a new file cache
func NewFileCache() *FileCache {
	return &FileCache{}
}

// Get reads and decodes the file at key.
func (c *FileCache) Get(ctx context.Context, key string) (*model.Annotation, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helper.NewError("read cache file", err)
	}

	annotation, err := Decode(data)
	if err != nil {
		return nil, false, helper.NewError("decode cache file "+key, err)
	}

	return annotation, true, nil
}

// Put writes the encoded annotation to key. The file is written to a
// temporary name first and renamed so readers never see partial data.
func (c *FileCache) Put(ctx context.Context, key string, annotation *model.Annotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(annotation)
	if err != nil {
		return helper.NewError("encode annotation", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(key), filepath.Base(key)+".*.tmp")
	if err != nil {
		return helper.NewError("create cache file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return helper.NewError("write cache file", err)
	}
	if err := tmp.Close(); err != nil {
		return helper.NewError("close cache file", err)
	}
	if err := os.Rename(tmp.Name(), key); err != nil {
		return helper.NewError("rename cache file", err)
	}

	return nil
}
