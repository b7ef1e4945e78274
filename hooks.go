package wsroute

import (
	"context"
	"time"
)

// OnRegisterFunc is called after a handler is registered, once per route the
// handler produced. Use this to log or count the routing table as it is
// built.
type OnRegisterFunc func(handler string, category MessageCategory)

// OnDispatchFunc is called after a message is dispatched successfully.
type OnDispatchFunc func(ctx context.Context, category MessageCategory, duration time.Duration)

// OnDispatchErrorFunc is called when dispatching a message fails, including
// decode failures and handler errors.
type OnDispatchErrorFunc func(ctx context.Context, category MessageCategory, err error, duration time.Duration)

// hooks holds all configured hook functions.
type hooks struct {
	onRegister      []OnRegisterFunc
	onDispatch      []OnDispatchFunc
	onDispatchError []OnDispatchErrorFunc
}

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithOnRegister adds a hook called for each route a registered handler
// produces. Multiple hooks are called in order.
//
// Example:
//
//	wsroute.WithOnRegister(func(handler string, cat wsroute.MessageCategory) {
//	    log.Printf("route %s -> %s", cat, handler)
//	})
func WithOnRegister(fn OnRegisterFunc) Option {
	return func(e *Endpoint) {
		e.hooks.onRegister = append(e.hooks.onRegister, fn)
	}
}

// WithOnDispatch adds a hook called after a message dispatches successfully.
// Multiple hooks are called in order.
//
// Example:
//
//	wsroute.WithOnDispatch(func(ctx context.Context, cat wsroute.MessageCategory, d time.Duration) {
//	    metrics.Timing("ws.dispatch", d, "category:"+cat.String())
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(e *Endpoint) {
		e.hooks.onDispatch = append(e.hooks.onDispatch, fn)
	}
}

// WithOnDispatchError adds a hook called when a dispatch fails.
// Multiple hooks are called in order.
//
// Example:
//
//	wsroute.WithOnDispatchError(func(ctx context.Context, cat wsroute.MessageCategory, err error, d time.Duration) {
//	    logger.Error("dispatch failed", "category", cat, "error", err)
//	})
func WithOnDispatchError(fn OnDispatchErrorFunc) Option {
	return func(e *Endpoint) {
		e.hooks.onDispatchError = append(e.hooks.onDispatchError, fn)
	}
}
