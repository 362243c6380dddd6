package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, log zerolog.Logger) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return New(NewDiskKV(cfg.BasePath()), cfg.Prefix(), log), nil
}

// NewDiskKV returns a KV storing one file per key under basePath. The key
// "@kcal/2024-01" lives in the file basePath/@kcal/2024-01.
func NewDiskKV(basePath string) *DiskKV {
	return &DiskKV{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}
}

// DiskKV is the diskv backed KV.
type DiskKV struct {
	d        *diskv.Diskv
	basePath string

	mu    sync.Mutex
	stale map[string]bool
}

// Dir is the directory the records are stored in.
func (k *DiskKV) Dir() string {
	return k.basePath
}

func (k *DiskKV) Get(key string) ([]byte, error) {
	rc, err := k.d.ReadStream(key, k.takeStale(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Forget makes the next Get of key skip the diskv read cache, for files
// changed by another process. An empty key forgets every record.
func (k *DiskKV) Forget(key string) {
	keys := []string{key}
	if key == "" {
		all, err := k.Keys(context.Background())
		if err != nil {
			return
		}
		keys = all
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stale == nil {
		k.stale = make(map[string]bool)
	}
	for _, stale := range keys {
		k.stale[stale] = true
	}
}

func (k *DiskKV) takeStale(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	stale := k.stale[key]
	delete(k.stale, key)
	return stale
}

func (k *DiskKV) Set(key string, val []byte) error {
	return k.d.Write(key, val)
}

func (k *DiskKV) Erase(key string) error {
	if err := k.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (k *DiskKV) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	for key := range k.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}
