package cartstore

import (
	"context"
	"sync"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

var _ cart.Store = (*MemoryStore)(nil)

// MemoryStore almacén en memoria del proceso. Guarda el documento serializado para
// comportarse igual que los almacenes durables (incluida la lectura tolerante).
type MemoryStore struct {
	decoder
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore construye el almacén en memoria.
func NewMemoryStore(key string, log *logger.Logger) *MemoryStore {
	return &MemoryStore{decoder: newDecoder(key, JSONCodec{}, log), data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(context.Context) ([]entity.CartLine, error) {
	s.mu.Lock()
	data, ok := s.data[s.key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return s.decode(data)
}

func (s *MemoryStore) Save(_ context.Context, lines []entity.CartLine) error {
	data, err := s.codec.Encode(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[s.key] = data
	s.mu.Unlock()
	return nil
}

// Raw documento guardado bajo la clave (nil si no hay).
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data[s.key]...)
}

// SetRaw reemplaza el documento guardado. Útil para sembrar estados persistidos.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key] = append([]byte(nil), data...)
}
