package execute

import (
	"context"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/strategy"
)

// WrapOptions tune a wrapped operation.
type WrapOptions struct {
	// Strategy overrides resolution when set.
	Strategy domain.Strategy
	// Fallback is handed to the executor for the fallback strategy.
	Fallback *Operation
	// OnRetry is forwarded to recovery executions.
	OnRetry func(retry int, err error)
}

// Wrap returns an operation with the same shape whose Invoke runs the
// underlying operation once and, on failure, resolves a strategy for the
// error and drives recovery with the resolution's modifications.
func (e *Executor) Wrap(resolver *strategy.Resolver, op Operation, wo WrapOptions) Operation {
	return Operation{
		Name:   op.Name,
		Params: op.Params,
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			result, err := op.Invoke(ctx, params)
			if err == nil {
				return result, nil
			}

			decision := resolver.Resolve(domain.FailureFromError(err))
			strat := decision.Strategy
			if wo.Strategy != "" {
				strat = wo.Strategy
			}

			inner := Operation{Name: op.Name, Params: params, Invoke: op.Invoke}
			result, _, execErr := e.Execute(ctx, inner, Options{
				Strategy:      strat,
				Fallback:      wo.Fallback,
				Modifications: decision.Modifications,
				OnRetry:       wo.OnRetry,
			})
			return result, execErr
		},
	}
}
