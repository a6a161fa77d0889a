package aura

import "github.com/aura-lang/aura/internal/chunk"

// Chunk is the compiled, word-resolved output of one Load call (spec
// §3.2/§6). A host can run it immediately, or cache/ship its wire bytes
// with Bytes and ChunkFromBytes and run it later without re-parsing —
// internal/chunk.Chunk.Bytes/FromBytes is the flat, fixed-size-cell ABI
// spec §3.2 and §9 require ("the compiled chunk... could be memcpy'd
// into caller storage").
type Chunk struct {
	inner *chunk.Chunk
}

// Bytes encodes the chunk into the flat cell-array wire format.
func (c *Chunk) Bytes() ([]byte, error) {
	b, err := c.inner.Bytes()
	if err != nil {
		return nil, classify(err)
	}
	return b, nil
}

// ChunkFromBytes decodes a chunk previously produced by (*Chunk).Bytes.
// It is already word-resolved (resolution happened before encoding) and
// ready to Run directly.
func ChunkFromBytes(data []byte) (*Chunk, error) {
	c, err := chunk.FromBytes(data)
	if err != nil {
		return nil, classify(err)
	}
	return &Chunk{inner: c}, nil
}
