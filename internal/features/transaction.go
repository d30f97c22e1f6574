package features

import (
	"fmt"
	"strings"
)

// Type is the PaySim transaction category.
type Type int

const (
	CashIn Type = iota + 1
	CashOut
	Debit
	Payment
	Transfer
)

var typeNames = map[Type]string{
	CashIn:   "CASH_IN",
	CashOut:  "CASH_OUT",
	Debit:    "DEBIT",
	Payment:  "PAYMENT",
	Transfer: "TRANSFER",
}

// Types lists every category in schema order.
func Types() []Type {
	return []Type{CashIn, CashOut, Debit, Payment, Transfer}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the five categories.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType maps a wire literal such as "TRANSFER" to its Type. Matching is
// exact: the training data only ever contained the upper-case literals.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, &SchemaError{Field: "type", Value: s}
}

// Transaction is the canonical input to the classifier.
type Transaction struct {
	Step           int
	Amount         float64
	OldBalanceOrig float64
	NewBalanceOrig float64
	OldBalanceDest float64
	NewBalanceDest float64
	Type           Type
}

// SchemaError is returned for a categorical value outside the training
// vocabulary.
type SchemaError struct {
	Field string
	Value string
}

func (e *SchemaError) Error() string {
	allowed := make([]string, 0, len(typeNames))
	for _, t := range Types() {
		allowed = append(allowed, t.String())
	}
	return fmt.Sprintf("%s %q is not one of %s", e.Field, e.Value, strings.Join(allowed, ", "))
}
