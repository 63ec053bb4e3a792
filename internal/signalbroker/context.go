// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import "context"

type brokerKey struct{}

// WithBroker returns a context carrying b.
func WithBroker(ctx context.Context, b *Broker) context.Context {
	return context.WithValue(ctx, brokerKey{}, b)
}

// FromContext returns the broker stored in ctx, or nil.
func FromContext(ctx context.Context) *Broker {
	b, _ := ctx.Value(brokerKey{}).(*Broker)
	return b
}
