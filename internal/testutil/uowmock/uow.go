package uowmock

import (
	"context"
	"errors"

	"incorporation-portal/internal/domain/application"
	"incorporation-portal/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinApplicationTxFn func(ctx context.Context, ref string, fn func(r uow.Repos, a *application.Application) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinApplicationTx(fn func(context.Context, string, func(uow.Repos, *application.Application) error) error) *UoW {
	m.WithinApplicationTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs the callback directly against r, resolving refs with
// r.Applications.GetByRef. It stands in for a real transaction in use case tests.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinApplicationTxFn: func(ctx context.Context, ref string, fn func(uow.Repos, *application.Application) error) error {
			a, err := r.Applications.GetByRef(ctx, ref)
			if err != nil {
				return err
			}
			return fn(r, a)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinApplicationTx(ctx context.Context, ref string, fn func(r uow.Repos, a *application.Application) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, ref, fn)
	}
	return errUnimplemented
}
