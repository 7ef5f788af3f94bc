// Package config holds the engine's tunable limits: the in-memory Config
// struct, its functional-options construction, and the 20-byte binary
// record an embedding host exchanges it as.
package config

// Config mirrors the 20-byte configuration record bit-for-bit (see
// Encode/Decode in wire.go); every field here has a wire offset.
type Config struct {
	MaxMemoryBytes   uint32
	MaxInputSize     uint32
	MaxObjectKeys    uint32
	ArrayDiffMode    ArrayDiffMode
	HashWindowSize   uint16
	MaxFullArraySize uint32
	ComputeMode      ComputeMode
}

// OptionFunc mutates a Config in place; New applies them over
// DefaultConfig in order.
type OptionFunc func(*Config)

// New returns DefaultConfig with opts applied in order.
func New(opts ...OptionFunc) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithMaxMemoryBytes(n uint32) OptionFunc {
	return func(c *Config) { c.MaxMemoryBytes = n }
}

func WithMaxInputSize(n uint32) OptionFunc {
	return func(c *Config) { c.MaxInputSize = n }
}

func WithMaxObjectKeys(n uint32) OptionFunc {
	return func(c *Config) { c.MaxObjectKeys = n }
}

func WithArrayDiffMode(mode ArrayDiffMode) OptionFunc {
	return func(c *Config) { c.ArrayDiffMode = mode }
}

func WithHashWindowSize(n uint16) OptionFunc {
	return func(c *Config) { c.HashWindowSize = n }
}

func WithMaxFullArraySize(n uint32) OptionFunc {
	return func(c *Config) { c.MaxFullArraySize = n }
}

func WithComputeMode(mode ComputeMode) OptionFunc {
	return func(c *Config) { c.ComputeMode = mode }
}

// LeftBufferCap and RightBufferCap split MaxInputSize evenly across the
// two ingestion sides, per §4.7's "typically split evenly left/right".
func (c Config) LeftBufferCap() int {
	return int(c.MaxInputSize / 2)
}

func (c Config) RightBufferCap() int {
	return int(c.MaxInputSize / 2)
}
