package nuq

import (
	"fmt"
	"io"
	"os"
)

// File is how the pipeline reads input contents and learns the path used
// for extension-based format detection.
type File interface {
	Contents() ([]byte, error)
	Path() string
}

// FileInfo is a File that reads lazily from an io.Reader and caches the
// bytes for future reads.
type FileInfo struct {
	path   string
	reader io.Reader
	data   []byte
	read   bool
}

// NewFile returns a FileInfo that reads from the given reader.
func NewFile(path string, reader io.Reader) *FileInfo {
	return &FileInfo{path: path, reader: reader}
}

// Contents returns the contents of the file. After the first call, the
// results are cached.
func (info *FileInfo) Contents() ([]byte, error) {
	if !info.read {
		if readCloser, ok := info.reader.(io.ReadCloser); ok {
			defer readCloser.Close()
		}
		var err error
		info.data, err = io.ReadAll(info.reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read file at %s: `%s`", info.path, err)
		}
		info.read = true
	}
	return info.data, nil
}

// Path returns the path to the file.
func (info *FileInfo) Path() string {
	return info.path
}

// OpenFile opens the file at path for lazy reading.
func OpenFile(path string) (*FileInfo, error) {
	path = os.ExpandEnv(path)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file at %s: `%s`", path, err)
	}

	return &FileInfo{path: path, reader: file}, nil
}
