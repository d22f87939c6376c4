package cartstore

import (
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// decoder parte común de los almacenes: clave, formato y log de registros descartados.
type decoder struct {
	key   string
	codec Codec
	log   *logger.Logger
}

func newDecoder(key string, codec Codec, log *logger.Logger) decoder {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return decoder{key: key, codec: codec, log: log}
}

func (d decoder) decode(data []byte) ([]entity.CartLine, error) {
	lines, dropped, err := d.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		d.log.Warn().Str("key", d.key).Int("dropped", dropped).Msg("registros del carrito ilegibles descartados")
	}
	return lines, nil
}
