package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Codec сжимает и распаковывает сериализованные записи
type Codec interface {
	Name() string
	Encode(data []byte) []byte
	Decode(data []byte) ([]byte, error)
}

// NewCodec возвращает кодек по имени из конфигурации ("zstd", "none" или "")
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "zstd":
		c, err := NewZstdCodec()
		if err != nil {
			return nil, err
		}
		return c, nil
	case "none":
		return rawCodec{}, nil
	default:
		return nil, fmt.Errorf("неизвестный кодек сжатия: %q", name)
	}
}

// ZstdCodec использует общие encoder/decoder в режиме EncodeAll/DecodeAll
type ZstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCodec создаёт zstd-кодек со скоростью сжатия по умолчанию
func NewZstdCodec() (*ZstdCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}

	return &ZstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (c *ZstdCodec) Name() string { return "zstd" }

// Encode сжимает данные. Безопасен для конкурентного вызова.
func (c *ZstdCodec) Encode(data []byte) []byte {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decode распаковывает данные. Безопасен для конкурентного вызова.
func (c *ZstdCodec) Decode(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки zstd: %w", err)
	}
	return out, nil
}

// Close освобождает ресурсы encoder/decoder
func (c *ZstdCodec) Close() {
	c.encoder.Close()
	c.decoder.Close()
}

type rawCodec struct{}

func (rawCodec) Name() string { return "none" }

func (rawCodec) Encode(data []byte) []byte { return data }

func (rawCodec) Decode(data []byte) ([]byte, error) { return data, nil }
