// Package audit emits one event per scored transaction so downstream systems
// can see what was decided. It keeps nothing itself.
package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pb "fraud-inference/pb"

	"fraud-inference/internal/scoring"
)

// Ingress paths a verdict can come from.
const (
	SourceGRPC   = "grpc"
	SourceHTTP   = "http"
	SourceStream = "stream"
)

// Record is what a transport knows about a scored transaction.
type Record struct {
	TransactionID string
	Source        string
	Amount        float64
	CardNumber    string
	Merchant      string
	Location      string
	Verdict       scoring.Verdict
	ScoredAt      time.Time
}

// Publisher hands records to an event sink without blocking the caller.
type Publisher interface {
	Publish(rec Record)
	Close()
}

// Nop drops every record. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(Record) {}
func (Nop) Close()         {}

// GeoResolver maps a location string to an ISO country code, or "".
type GeoResolver interface {
	CountryCode(location string) string
}

// Event converts rec into its wire form. The card number is reduced to its
// last four digits.
func (rec Record) Event(geo GeoResolver) *pb.VerdictEvent {
	ev := &pb.VerdictEvent{
		EventId:         uuid.NewString(),
		TransactionId:   rec.TransactionID,
		Source:          rec.Source,
		Amount:          rec.Amount,
		CardLast4:       MaskCard(rec.CardNumber),
		Merchant:        rec.Merchant,
		Location:        rec.Location,
		Fraudulent:      rec.Verdict.IsFraud,
		ConfidenceScore: rec.Verdict.Confidence,
		ScoredAtUnixMs:  rec.ScoredAt.UnixMilli(),
	}
	if geo != nil && rec.Location != "" {
		ev.CountryCode = geo.CountryCode(rec.Location)
	}
	return ev
}

// MaskCard keeps the last four digits of a card number.
func MaskCard(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
