package storage

import "io"

// BlobStore backs the audio preview cache. fs is the only driver today;
// the interface keeps an object-store driver possible without touching
// callers.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Exists(key string) bool
}
