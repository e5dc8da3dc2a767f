// Package tx declares the transaction port shared by the domain services.
package tx

import "context"

// Manager runs fn inside one database transaction.
// fn must use the ctx it receives so repositories join the transaction;
// a non-nil return rolls everything back, nil commits.
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
