package payment

import (
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// processorRegistry holds the configured processors keyed by method.
type processorRegistry struct {
	processors map[payment.Method]payment.Processor
}

// NewProcessorRegistry assembles a registry over the given processors.
// A later registration for the same method replaces the earlier one.
func NewProcessorRegistry(processors ...payment.Processor) payment.ProcessorRegistry {
	r := &processorRegistry{
		processors: make(map[payment.Method]payment.Processor, len(processors)),
	}
	for _, p := range processors {
		r.processors[p.Method()] = p
	}
	return r
}

// Get returns the processor for the given method
func (r *processorRegistry) Get(method payment.Method) (payment.Processor, error) {
	p, ok := r.processors[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayNotConfigured, method)
	}
	return p, nil
}

// List returns the registered processors in method declaration order
func (r *processorRegistry) List() []payment.Processor {
	out := make([]payment.Processor, 0, len(r.processors))
	for _, m := range payment.ValidMethods {
		if p, ok := r.processors[m]; ok {
			out = append(out, p)
		}
	}
	return out
}

// IsSupported returns true if a processor is registered for the method
func (r *processorRegistry) IsSupported(method payment.Method) bool {
	_, ok := r.processors[method]
	return ok
}
