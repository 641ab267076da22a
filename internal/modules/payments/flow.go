package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/chesterOps/meetro/internal/gateway"
)

var ErrUnknownPaymentType = errors.New("unknown payment type")

// Flow is one payment type's completion behavior. The webhook and the
// verify-payment handlers both dispatch on the payment type carried in the
// transaction metadata; adding a new payment type means registering a new
// Flow, not editing a switch in two handlers.
type Flow interface {
	Type() string
	// Complete applies the gateway-verified transaction and returns a
	// caller-facing receipt. Must be idempotent: re-applying the same
	// transaction returns the existing result.
	Complete(ctx context.Context, tx gateway.VerifiedTransaction) (any, error)
}

type Registry struct {
	flows map[string]Flow
}

func NewRegistry(flows ...Flow) *Registry {
	r := &Registry{flows: make(map[string]Flow, len(flows))}
	for _, f := range flows {
		r.flows[f.Type()] = f
	}
	return r
}

func (r *Registry) Complete(ctx context.Context, tx gateway.VerifiedTransaction) (any, error) {
	f, ok := r.flows[tx.Metadata.PaymentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentType, tx.Metadata.PaymentType)
	}
	return f.Complete(ctx, tx)
}
