// Package features turns a transaction into the ordered feature vector the
// fraud classifier was trained on.
package features

import "fmt"

// Kind says where a column's value comes from.
type Kind int

const (
	// Numeric columns copy a transaction field.
	Numeric Kind = iota
	// Indicator columns are the one-hot expansion of the transaction type.
	Indicator
)

// Column describes one position of the feature vector.
type Column struct {
	Name     string
	Kind     Kind
	Category Type // set for Indicator columns only
	Default  float64

	value func(*Transaction) float64
}

// Schema is an ordered list of column descriptors. Position i of every
// encoded Vector holds the value of Schema[i].
type Schema []Column

// TrainingSchema matches the column order produced by get_dummies(type) on
// the PaySim training frame. The serving side never reorders it.
var TrainingSchema = Schema{
	{Name: "step", Kind: Numeric, value: func(t *Transaction) float64 { return float64(t.Step) }},
	{Name: "amount", Kind: Numeric, value: func(t *Transaction) float64 { return t.Amount }},
	{Name: "oldbalanceOrg", Kind: Numeric, value: func(t *Transaction) float64 { return t.OldBalanceOrig }},
	{Name: "newbalanceOrig", Kind: Numeric, value: func(t *Transaction) float64 { return t.NewBalanceOrig }},
	{Name: "oldbalanceDest", Kind: Numeric, value: func(t *Transaction) float64 { return t.OldBalanceDest }},
	{Name: "newbalanceDest", Kind: Numeric, value: func(t *Transaction) float64 { return t.NewBalanceDest }},
	{Name: "type_CASH_IN", Kind: Indicator, Category: CashIn},
	{Name: "type_CASH_OUT", Kind: Indicator, Category: CashOut},
	{Name: "type_DEBIT", Kind: Indicator, Category: Debit},
	{Name: "type_PAYMENT", Kind: Indicator, Category: Payment},
	{Name: "type_TRANSFER", Kind: Indicator, Category: Transfer},
}

// Width is the number of columns.
func (s Schema) Width() int {
	return len(s)
}

// Names returns the column names in vector order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Verify compares the feature names recorded in a model artifact with the
// schema and reports the first difference.
func (s Schema) Verify(names []string) error {
	if len(names) != len(s) {
		return &DriftError{Position: -1, Detail: fmt.Sprintf("artifact has %d features, schema has %d", len(names), len(s))}
	}
	for i, c := range s {
		if names[i] != c.Name {
			return &DriftError{Position: i, Detail: fmt.Sprintf("artifact column %q, schema column %q", names[i], c.Name)}
		}
	}
	return nil
}

// DriftError reports a mismatch between a model artifact and the schema.
type DriftError struct {
	Position int
	Detail   string
}

func (e *DriftError) Error() string {
	if e.Position < 0 {
		return "feature schema drift: " + e.Detail
	}
	return fmt.Sprintf("feature schema drift at position %d: %s", e.Position, e.Detail)
}
