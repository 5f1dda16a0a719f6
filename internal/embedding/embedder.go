package embedding

import (
	"context"
	"log"
	"math/rand"
)

// GenerateClient is the remote embedding dependency of the Embedder.
type GenerateClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Vector is an embedding plus its provenance. Degraded marks a placeholder
// produced while the embedding model was unavailable.
type Vector struct {
	Values   []float32
	Degraded bool
}

// Embedder wraps an embedding client and never fails: when the client is
// missing or a call errors, it returns a uniform-random placeholder vector
// flagged as degraded. Construct once per process and inject; the Embedder
// holds no per-call state.
type Embedder struct {
	client     GenerateClient
	dimensions int
}

// NewEmbedder creates an Embedder backed by the given client.
func NewEmbedder(client GenerateClient, dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{
		client:     client,
		dimensions: dimensions,
	}
}

// NewDegradedEmbedder creates an Embedder with no backing model. Every
// call returns a flagged random vector. Used when the embedding client
// could not be initialized.
func NewDegradedEmbedder(dimensions int) *Embedder {
	return NewEmbedder(nil, dimensions)
}

// Dimensions returns the fixed output width of this embedder.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Degraded reports whether the embedder has no backing model at all.
// Individual calls may still degrade transiently; check Vector.Degraded.
func (e *Embedder) Degraded() bool {
	return e.client == nil
}

// Embed returns an embedding for the given text. The returned vector
// always has exactly Dimensions() entries.
func (e *Embedder) Embed(ctx context.Context, text string) Vector {
	if e.client == nil {
		return e.placeholder()
	}

	values, err := e.client.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("embedding call failed, using random placeholder: %v", err)
		return e.placeholder()
	}

	return Vector{Values: values}
}

func (e *Embedder) placeholder() Vector {
	values := make([]float32, e.dimensions)
	for i := range values {
		values[i] = rand.Float32()
	}
	return Vector{Values: values, Degraded: true}
}
