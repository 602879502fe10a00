package persistence

import (
	"fmt"
	"vivafit/internal/persistence/interfaces"

	"github.com/klauspost/compress/zstd"
)

// maxSnapshotSize bounds the decoded size of a key-value snapshot, so a
// damaged file cannot make Restore allocate without limit.
const maxSnapshotSize = 256 << 20

// SnapshotCompressor packs the JSON snapshot written by FileStore. The whole
// snapshot is encoded in one call, so the stateless EncodeAll/DecodeAll pair is
// used instead of streams.
type SnapshotCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *SnapshotCompressor) Compress(snapshot []byte) ([]byte, error) {
	return z.encoder.EncodeAll(snapshot, make([]byte, 0, len(snapshot)/2)), nil
}

func (z *SnapshotCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return out, nil
}

func (z *SnapshotCompressor) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &SnapshotCompressor{encoder: encoder, decoder: decoder}, nil
}
