// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"encoding/hex"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression selects how captured pixels are packed.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// FormatRGB555 names the remote pixel layout: little-endian 16-bit
// pixels, red in bits 0-4, green 5-9, blue 10-14.
const FormatRGB555 = "rgb555"

// Capture is one snapshot of the remote buffer.
type Capture struct {
	Width  int    `cbor:"width"`
	Height int    `cbor:"height"`
	Format string `cbor:"format"`

	// Compression is what was actually applied. A frame that does
	// not shrink is stored uncompressed whatever was requested.
	Compression Compression `cbor:"compression"`

	// Size is the uncompressed length in bytes.
	Size int `cbor:"size"`

	// Digest is the hex BLAKE3 keyed hash of the uncompressed pixels.
	Digest string `cbor:"digest"`

	Data []byte `cbor:"data"`
}

// captureDomainKey separates capture digests from any other BLAKE3 use
// of the same bytes. ASCII, zero-padded to 32 bytes.
var captureDomainKey = [32]byte{
	'f', 'b', 'v', 'n', 'c', '.', 's', 'c', 'r', 'e', 'e', 'n', '.',
	'c', 'a', 'p', 't', 'u', 'r', 'e',
}

// Digest returns the hex capture digest of pixels.
func Digest(pixels []byte) string {
	hasher, err := blake3.NewKeyed(captureDomainKey[:])
	if err != nil {
		panic("screen: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(pixels)
	return hex.EncodeToString(hasher.Sum(nil))
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use with
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("screen: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("screen: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodeCapture packs pixels (a copy of the remote buffer) into a
// Capture. pixels must not be modified afterwards when compression is
// none, since Data aliases it.
func EncodeCapture(geometry Geometry, pixels []byte, compression Compression) (*Capture, error) {
	if len(pixels) != geometry.RemoteSize() {
		return nil, fmt.Errorf("capture of %d bytes does not match %dx%d screen", len(pixels), geometry.Width, geometry.Height)
	}

	capture := &Capture{
		Width:       geometry.Width,
		Height:      geometry.Height,
		Format:      FormatRGB555,
		Compression: CompressionNone,
		Size:        len(pixels),
		Digest:      Digest(pixels),
		Data:        pixels,
	}

	var packed []byte
	switch compression {
	case CompressionNone, "":
		return capture, nil
	case CompressionZstd:
		packed = zstdEncoder.EncodeAll(pixels, make([]byte, 0, len(pixels)/4))
	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(pixels)))
		written, err := lz4.CompressBlock(pixels, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// Zero means lz4 judged the block incompressible.
		if written > 0 {
			packed = destination[:written]
		}
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}

	if len(packed) > 0 && len(packed) < len(pixels) {
		capture.Compression = compression
		capture.Data = packed
	}
	return capture, nil
}

// Pixels returns the uncompressed pixels and verifies the digest.
func (c *Capture) Pixels() ([]byte, error) {
	var pixels []byte
	switch c.Compression {
	case CompressionNone:
		pixels = c.Data
	case CompressionZstd:
		decoded, err := zstdDecoder.DecodeAll(c.Data, make([]byte, 0, c.Size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		pixels = decoded
	case CompressionLZ4:
		destination := make([]byte, c.Size)
		read, err := lz4.UncompressBlock(c.Data, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		pixels = destination[:read]
	default:
		return nil, fmt.Errorf("unknown compression %q", c.Compression)
	}

	if len(pixels) != c.Size {
		return nil, fmt.Errorf("capture decoded to %d bytes, expected %d", len(pixels), c.Size)
	}
	if digest := Digest(pixels); digest != c.Digest {
		return nil, fmt.Errorf("capture digest mismatch: computed %s, recorded %s", digest, c.Digest)
	}
	return pixels, nil
}
