package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/adminconsole/go-auth-client/internal/cryptoutil"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
)

// FileStore is a KeyValueStore persisted as a single encrypted file,
// used as the durable scope by the CLI. Tokens never touch disk in the
// clear: the whole key/value map is sealed with XChaCha20-Poly1305
// under a caller-provided key.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  []byte
}

var _ KeyValueStore = (*FileStore)(nil)

// NewFileStore opens (or lazily creates) the store at path. key must be
// chacha20poly1305.KeySize bytes.
func NewFileStore(path string, key []byte) (*FileStore, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Errorf("[NewFileStore] key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &FileStore{path: path, key: key}, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", errors.Wrapf(errs.ErrKeyNotFound, "[FileStore.Get] %q", key)
	}
	return value, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStore) load() (map[string]string, error) {
	sealed, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] ReadFile")
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] chacha20poly1305.NewX")
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("[FileStore.load] file too short to contain nonce")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] aead.Open")
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] json.Unmarshal")
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] json.Marshal")
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] chacha20poly1305.NewX")
	}
	nonce, err := cryptoutil.RandomBytes(aead.NonceSize())
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] RandomBytes")
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.save] MkdirAll")
	}
	if err := os.WriteFile(f.path, sealed, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.save] WriteFile")
	}
	return nil
}
