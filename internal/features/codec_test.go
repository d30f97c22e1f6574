package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction(t Type) Transaction {
	return Transaction{
		Step:           7,
		Amount:         181.0,
		OldBalanceOrig: 181.0,
		NewBalanceOrig: 0,
		OldBalanceDest: 21182.0,
		NewBalanceDest: 21363.0,
		Type:           t,
	}
}

func TestTrainingSchema_ColumnOrder(t *testing.T) {
	assert.Equal(t, []string{
		"step",
		"amount",
		"oldbalanceOrg",
		"newbalanceOrig",
		"oldbalanceDest",
		"newbalanceDest",
		"type_CASH_IN",
		"type_CASH_OUT",
		"type_DEBIT",
		"type_PAYMENT",
		"type_TRANSFER",
	}, TrainingSchema.Names())
	assert.Equal(t, 11, TrainingSchema.Width())
}

func TestEncode_WidthAndOneHot(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			v, err := Encode(sampleTransaction(typ))
			require.NoError(t, err)
			require.Len(t, v, TrainingSchema.Width())

			assert.Equal(t, 7.0, v[0])
			assert.Equal(t, 181.0, v[1])
			assert.Equal(t, 181.0, v[2])
			assert.Equal(t, 0.0, v[3])
			assert.Equal(t, 21182.0, v[4])
			assert.Equal(t, 21363.0, v[5])

			ones := 0
			for _, x := range v[6:] {
				if x == 1 {
					ones++
				} else {
					assert.Equal(t, 0.0, x)
				}
			}
			assert.Equal(t, 1, ones)

			hot, ok := v.Column("type_" + typ.String())
			require.True(t, ok)
			assert.Equal(t, 1.0, hot)
		})
	}
}

func TestEncode_TypeChangesOnlyIndicators(t *testing.T) {
	types := Types()
	for _, a := range types {
		for _, b := range types {
			if a == b {
				continue
			}
			va, err := Encode(sampleTransaction(a))
			require.NoError(t, err)
			vb, err := Encode(sampleTransaction(b))
			require.NoError(t, err)

			var diff []string
			for i, name := range TrainingSchema.Names() {
				if va[i] != vb[i] {
					diff = append(diff, name)
				}
			}
			assert.ElementsMatch(t, []string{"type_" + a.String(), "type_" + b.String()}, diff, "%s vs %s", a, b)
		}
	}
}

func TestEncode_RejectsUnknownType(t *testing.T) {
	for _, typ := range []Type{0, Type(6), Type(-1)} {
		v, err := Encode(sampleTransaction(typ))
		assert.Nil(t, v)

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr), "type %d", int(typ))
		assert.Equal(t, "type", schemaErr.Field)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	for _, bad := range []string{"UNKNOWN", "transfer", "", " TRANSFER"} {
		_, err := ParseType(bad)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr, bad)
		assert.Equal(t, bad, schemaErr.Value)
	}
}

func TestNewEncoder_RejectsIncompleteSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{"missing indicator", TrainingSchema[:len(TrainingSchema)-1]},
		{"duplicate name", append(Schema{TrainingSchema[0]}, TrainingSchema...)},
		{"numeric without source", append(Schema{{Name: "velocity", Kind: Numeric}}, TrainingSchema...)},
		{"duplicate indicator", append(Schema{{Name: "type_TRANSFER_2", Kind: Indicator, Category: Transfer}}, TrainingSchema...)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEncoder(tc.schema)
			assert.Error(t, err)
		})
	}
}

func TestSchema_Verify(t *testing.T) {
	require.NoError(t, TrainingSchema.Verify(TrainingSchema.Names()))

	swapped := TrainingSchema.Names()
	swapped[6], swapped[10] = swapped[10], swapped[6]
	err := TrainingSchema.Verify(swapped)
	var drift *DriftError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, 6, drift.Position)

	err = TrainingSchema.Verify(TrainingSchema.Names()[:6])
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, -1, drift.Position)
}
