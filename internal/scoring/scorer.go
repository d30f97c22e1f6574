// Package scoring joins the feature encoder and the loaded model into the one
// inference path both transports call.
package scoring

import (
	"fraud-inference/internal/features"
	"fraud-inference/internal/model"
)

// FraudThreshold is the confidence at or above which a transaction is
// flagged. It is fixed rather than configurable.
const FraudThreshold = 0.5

// Verdict is the classifier's decision for one transaction.
type Verdict struct {
	Confidence float64
	IsFraud    bool
}

// NewVerdict applies FraudThreshold to a fraud probability.
func NewVerdict(confidence float64) Verdict {
	return Verdict{Confidence: confidence, IsFraud: confidence >= FraudThreshold}
}

// Scorer turns a canonical transaction into a verdict.
type Scorer interface {
	Score(tx features.Transaction) (Verdict, error)
}

// Pipeline is the production Scorer: encode, then infer. Both fields are
// immutable after construction.
type Pipeline struct {
	encoder *features.Encoder
	model   *model.Handle
}

// NewPipeline wires an encoder to a loaded model.
func NewPipeline(enc *features.Encoder, h *model.Handle) *Pipeline {
	return &Pipeline{encoder: enc, model: h}
}

// Score returns a *features.SchemaError for an unknown type and a
// *model.InferenceError if the vector does not fit the model.
func (p *Pipeline) Score(tx features.Transaction) (Verdict, error) {
	v, err := p.encoder.Encode(tx)
	if err != nil {
		return Verdict{}, err
	}
	confidence, err := p.model.Infer(v)
	if err != nil {
		return Verdict{}, err
	}
	return NewVerdict(confidence), nil
}

// Model returns the handle behind the pipeline.
func (p *Pipeline) Model() *model.Handle {
	return p.model
}
