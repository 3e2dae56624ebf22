package inmemory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/jmloader/storage"
)

type object struct {
	data     []byte
	options  storage.PutOptions
	modified time.Time
}

// DataStore implements storage.DataStore in memory
type DataStore struct {
	objects map[string]object
	mu      sync.RWMutex
}

func NewDataStore() *DataStore {
	return &DataStore{
		objects: make(map[string]object),
	}
}

func (s *DataStore) Put(ctx context.Context, key string, data io.Reader, options ...storage.PutOption) error {
	if key == "" {
		return storage.NewStorageError("Put", key, nil, storage.ErrCodeInvalidArgument, "empty key")
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return storage.NewStorageError("Put", key, err, storage.ErrCodeInternal, "failed to read data")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{
		data:     content,
		options:  *storage.NewPutOptions(options...),
		modified: time.Now(),
	}
	return nil
}

func (s *DataStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, storage.NewStorageError("Get", key, nil, storage.ErrCodeNotFound, "object not found")
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *DataStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *DataStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []storage.ObjectInfo
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		sum := md5.Sum(obj.data)
		infos = append(infos, storage.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
			ETag:         hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
	return infos, nil
}

func (s *DataStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.objects[key]
	return exists, nil
}

// ContentEncoding returns the content encoding an object was stored with
func (s *DataStore) ContentEncoding(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[key].options.ContentEncoding
}

// ContentType returns the content type an object was stored with
func (s *DataStore) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[key].options.ContentType
}
