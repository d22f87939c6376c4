package cartstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

var _ cart.Store = (*FileStore)(nil)

// FileStore guarda el carrito como JSON en un archivo local. Cada Save escribe un
// temporal y lo renombra para no dejar documentos a medias.
type FileStore struct {
	decoder
	path string
}

// NewFileStore construye el almacén sobre path. El directorio se crea al guardar.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{decoder: newDecoder(filepath.Base(path), JSONCodec{}, log), path: path}
}

func (s *FileStore) Load(context.Context) ([]entity.CartLine, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer carrito: %w", err)
	}
	return s.decode(data)
}

func (s *FileStore) Save(_ context.Context, lines []entity.CartLine) error {
	data, err := s.codec.Encode(lines)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio del carrito: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("escribir carrito: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("reemplazar carrito: %w", err)
	}
	return nil
}
