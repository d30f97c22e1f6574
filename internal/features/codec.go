package features

import "fmt"

// Vector is an encoded transaction, aligned with the schema that produced it.
type Vector []float64

// Encoder writes transactions into vectors laid out by a Schema. It holds no
// mutable state and is safe for concurrent use.
type Encoder struct {
	schema Schema
}

// NewEncoder returns an encoder for s after checking that s can encode every
// transaction type.
func NewEncoder(s Schema) (*Encoder, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return &Encoder{schema: s}, nil
}

// DefaultEncoder encodes with TrainingSchema.
var DefaultEncoder = mustEncoder(TrainingSchema)

func mustEncoder(s Schema) *Encoder {
	e, err := NewEncoder(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Schema returns the layout the encoder writes.
func (e *Encoder) Schema() Schema {
	return e.schema
}

// Encode returns the feature vector for tx. An unknown type is rejected
// before any column is written.
func (e *Encoder) Encode(tx Transaction) (Vector, error) {
	if !tx.Type.Valid() {
		return nil, &SchemaError{Field: "type", Value: tx.Type.String()}
	}

	v := make(Vector, len(e.schema))
	for i := range e.schema {
		c := &e.schema[i]
		switch c.Kind {
		case Numeric:
			v[i] = c.value(&tx)
		case Indicator:
			if c.Category == tx.Type {
				v[i] = 1
			} else {
				v[i] = c.Default
			}
		}
	}
	return v, nil
}

// Encode uses DefaultEncoder.
func Encode(tx Transaction) (Vector, error) {
	return DefaultEncoder.Encode(tx)
}

// Column returns the value stored under the named column of a vector encoded
// with TrainingSchema.
func (v Vector) Column(name string) (float64, bool) {
	i := TrainingSchema.Index(name)
	if i < 0 || i >= len(v) {
		return 0, false
	}
	return v[i], true
}

// check requires one indicator per category, an accessor on every numeric
// column and unique names.
func (s Schema) check() error {
	seenName := make(map[string]bool, len(s))
	seenType := make(map[Type]bool, len(typeNames))
	for i, c := range s {
		if seenName[c.Name] {
			return fmt.Errorf("schema column %d: duplicate name %q", i, c.Name)
		}
		seenName[c.Name] = true

		switch c.Kind {
		case Numeric:
			if c.value == nil {
				return fmt.Errorf("schema column %q: numeric column without a source field", c.Name)
			}
		case Indicator:
			if !c.Category.Valid() {
				return fmt.Errorf("schema column %q: indicator for unknown category", c.Name)
			}
			if seenType[c.Category] {
				return fmt.Errorf("schema column %q: second indicator for %s", c.Name, c.Category)
			}
			seenType[c.Category] = true
		default:
			return fmt.Errorf("schema column %q: unknown kind %d", c.Name, c.Kind)
		}
	}
	for _, t := range Types() {
		if !seenType[t] {
			return fmt.Errorf("schema has no indicator column for %s", t)
		}
	}
	return nil
}
