package storage

import (
	"io"
	"path"
	"strings"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage keeps photo originals and thumbnails as blobs addressed by key.
type Storage interface {
	SaveFile(r io.Reader, info FileInfo) (string, error)
	Put(key string, r io.Reader, contentType string) error
	OpenFile(key string) (io.ReadCloser, error)
	DeleteFile(key string) error
}

// ThumbnailKey is the key under which the thumbnail of key is stored.
func ThumbnailKey(key string) string {
	base := strings.TrimSuffix(path.Base(key), path.Ext(key))
	return "thumbnails/" + base + ".jpg"
}
