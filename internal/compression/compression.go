// Package compression frames exported artifacts with optional LZ4 or ZSTD
// block compression.
package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores the payload as is.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Extension returns the file suffix for t, including the dot, or "" for None.
func (t Type) Extension() string {
	switch t {
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	default:
		return ""
	}
}

// Parse maps a name ("none", "lz4", "zstd") to a Type.
func Parse(name string) (Type, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("unknown compression %q", name)
	}
}

// FromExtension returns the Type whose Extension is ext, or None.
func FromExtension(ext string) Type {
	switch ext {
	case ".lz4":
		return LZ4
	case ".zst":
		return ZSTD
	default:
		return None
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Frame format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means Data is stored uncompressed.
const headerSize = 8

// ErrCorrupt is returned when a frame cannot be decoded.
var ErrCorrupt = errors.New("compression: corrupt frame")

// Compress frames data, compressing it with t when that saves space.
// None returns data unchanged and unframed.
func Compress(data []byte, t Type) ([]byte, error) {
	if t == None {
		return data, nil
	}

	var (
		compressed []byte
		err        error
	)
	switch t {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed = compressZSTD(data)
	default:
		return nil, fmt.Errorf("unknown compression type %v", t)
	}
	if err != nil {
		return nil, err
	}

	// Store uncompressed when compression does not help (ratio > 0.9).
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return buf[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// Decompress reverses Compress.
func Decompress(data []byte, t Type) ([]byte, error) {
	if t == None {
		return data, nil
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: frame too small for header", ErrCorrupt)
	}

	size := binary.LittleEndian.Uint32(data[0:])
	csize := binary.LittleEndian.Uint32(data[4:])
	body := data[headerSize:]

	if csize == 0 {
		if uint32(len(body)) < size {
			return nil, fmt.Errorf("%w: stored payload truncated", ErrCorrupt)
		}
		return body[:size], nil
	}
	if uint32(len(body)) < csize {
		return nil, fmt.Errorf("%w: compressed payload truncated", ErrCorrupt)
	}
	body = body[:csize]

	switch t {
	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		out, err := dec.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression type %v", t)
	}
}
