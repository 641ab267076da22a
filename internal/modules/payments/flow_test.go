package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/chesterOps/meetro/internal/gateway"
)

type stubFlow struct {
	typ    string
	called int
	result any
}

func (s *stubFlow) Type() string { return s.typ }

func (s *stubFlow) Complete(ctx context.Context, tx gateway.VerifiedTransaction) (any, error) {
	s.called++
	return s.result, nil
}

func TestRegistryDispatchesOnPaymentType(t *testing.T) {
	chipin := &stubFlow{typ: "chipin", result: "chipin-receipt"}
	ticket := &stubFlow{typ: "ticket", result: "ticket-receipt"}
	r := NewRegistry(chipin, ticket)

	got, err := r.Complete(context.Background(), gateway.VerifiedTransaction{
		Metadata: gateway.TransactionMetadata{PaymentType: "chipin"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "chipin-receipt" {
		t.Errorf("result = %v", got)
	}
	if chipin.called != 1 || ticket.called != 0 {
		t.Errorf("dispatch counts: chipin %d, ticket %d", chipin.called, ticket.called)
	}
}

func TestRegistryRejectsUnknownPaymentType(t *testing.T) {
	r := NewRegistry(&stubFlow{typ: "chipin"})

	for _, typ := range []string{"", "ticket", "CHIPIN"} {
		_, err := r.Complete(context.Background(), gateway.VerifiedTransaction{
			Metadata: gateway.TransactionMetadata{PaymentType: typ},
		})
		if !errors.Is(err, ErrUnknownPaymentType) {
			t.Errorf("type %q: err = %v, want ErrUnknownPaymentType", typ, err)
		}
	}
}
