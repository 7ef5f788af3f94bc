package config

import (
	"encoding/binary"

	diffcoreerrors "github.com/diffcore-io/diffcore/pkg/errors"
)

// WireSize is the fixed length of the binary configuration record.
const WireSize = 20

// Encode writes c as the 20-byte little-endian configuration record.
func Encode(c Config) []byte {
	buf := make([]byte, WireSize)
	binary.LittleEndian.PutUint32(buf[0:4], c.MaxMemoryBytes)
	binary.LittleEndian.PutUint32(buf[4:8], c.MaxInputSize)
	binary.LittleEndian.PutUint32(buf[8:12], c.MaxObjectKeys)
	buf[12] = byte(c.ArrayDiffMode)
	binary.LittleEndian.PutUint16(buf[13:15], c.HashWindowSize)
	binary.LittleEndian.PutUint32(buf[15:19], c.MaxFullArraySize)
	buf[19] = byte(c.ComputeMode)
	return buf
}

// Decode parses the 20-byte configuration record. A zero-length buffer
// selects DefaultConfig, per §6. Any other length is a ConfigError.
func Decode(buf []byte) (Config, error) {
	if len(buf) == 0 {
		return DefaultConfig(), nil
	}
	if len(buf) != WireSize {
		return Config{}, diffcoreerrors.NewConfigError(
			diffcoreerrors.CodeParseFailure,
			"configuration record must be 0 or 20 bytes",
		).WithField("length")
	}
	return Config{
		MaxMemoryBytes:   binary.LittleEndian.Uint32(buf[0:4]),
		MaxInputSize:     binary.LittleEndian.Uint32(buf[4:8]),
		MaxObjectKeys:    binary.LittleEndian.Uint32(buf[8:12]),
		ArrayDiffMode:    ArrayDiffMode(buf[12]),
		HashWindowSize:   binary.LittleEndian.Uint16(buf[13:15]),
		MaxFullArraySize: binary.LittleEndian.Uint32(buf[15:19]),
		ComputeMode:      ComputeMode(buf[19]),
	}, nil
}
