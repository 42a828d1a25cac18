package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// FetchFunc streams the audio bytes behind a bank audioRef.
type FetchFunc func(ctx context.Context, audioRef string) (io.ReadCloser, error)

// AudioCache mirrors generated clips locally so the operator can preview
// them before confirming a test. Disposable by design: the bank's audioRef
// is the source of truth, the cache only saves round-trips.
type AudioCache struct {
	blobs BlobStore
	fetch FetchFunc
}

func NewAudioCache(blobs BlobStore, fetch FetchFunc) *AudioCache {
	return &AudioCache{blobs: blobs, fetch: fetch}
}

func audioKey(questionID string) string { return "audio/" + questionID }

// Mirror copies a clip into the cache after a successful generation.
func (c *AudioCache) Mirror(ctx context.Context, questionID, audioRef string) error {
	rc, err := c.fetch(ctx, audioRef)
	if err != nil {
		return fmt.Errorf("mirror audio %s: %w", questionID, err)
	}
	defer rc.Close()
	if _, err := c.blobs.Put(audioKey(questionID), rc); err != nil {
		return fmt.Errorf("mirror audio %s: %w", questionID, err)
	}
	return nil
}

// Open returns the cached clip, fetching and filling the cache on a miss.
func (c *AudioCache) Open(ctx context.Context, questionID, audioRef string) (io.ReadCloser, error) {
	key := audioKey(questionID)
	if c.blobs.Exists(key) {
		return c.blobs.Get(key)
	}
	if audioRef == "" {
		return nil, fmt.Errorf("no cached audio for question %s", questionID)
	}
	rc, err := c.fetch(ctx, audioRef)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if _, err := c.blobs.Put(key, bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}
