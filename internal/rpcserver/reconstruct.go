package rpcserver

import (
	"math"

	"fraud-inference/internal/features"
	"fraud-inference/internal/scoring"
)

// The payment message carries only an amount, so the rest of the
// transaction is filled in with fixed worst-case assumptions. Each choice
// pushes the model toward flagging rather than missing fraud.
const (
	// ReconstructedStep is a placeholder; the transport has no time step.
	ReconstructedStep = 1
	// ReconstructedType is TRANSFER because PaySim fraud is concentrated in
	// TRANSFER and CASH_OUT.
	ReconstructedType = features.Transfer
	// ReconstructedNewBalanceOrig models the whole amount leaving the origin.
	ReconstructedNewBalanceOrig = 0.0
	// ReconstructedOldBalanceDest models an empty destination that receives
	// the whole amount.
	ReconstructedOldBalanceDest = 0.0
)

// Reconstruct builds the full transaction the model expects from a payment
// amount. It is deterministic and fills every field.
func Reconstruct(amount float64) features.Transaction {
	return features.Transaction{
		Step:           ReconstructedStep,
		Amount:         amount,
		OldBalanceOrig: amount,
		NewBalanceOrig: ReconstructedNewBalanceOrig,
		OldBalanceDest: ReconstructedOldBalanceDest,
		NewBalanceDest: amount,
		Type:           ReconstructedType,
	}
}

// validateAmount rejects a missing or malformed amount. proto3 doubles have
// no presence bit, so an absent amount arrives as 0. Negative amounts are
// scored, the same as on the HTTP form.
func validateAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return &scoring.InvalidRequest{Field: "amount", Reason: "must be a finite number"}
	case amount == 0:
		return &scoring.InvalidRequest{Field: "amount", Reason: "is required"}
	}
	return nil
}
