package wsroute

import (
	"context"
	"reflect"
)

// Handler processes a decoded message payload of type T.
//
// The type parameter T is the payload type the handler wants to receive.
// When T is one of the native wire types (string, []byte, PongMessage,
// io.Reader, io.RuneReader) the endpoint routes messages to the handler
// directly; any other T requires a matching decoder in the endpoint
// configuration.
//
// Example:
//
//	type StockTickHandler struct {
//	    book *OrderBook
//	}
//
//	func (h *StockTickHandler) Handle(ctx context.Context, tick StockTick) error {
//	    return h.book.Apply(ctx, tick)
//	}
type Handler[T any] interface {
	Handle(ctx context.Context, msg T) error
}

// HandlerFunc is a function adapter for Handler. Use for simple handlers
// that don't need a struct:
//
//	wsroute.RegisterFunc(e, func(ctx context.Context, text string) error {
//	    return nil
//	})
type HandlerFunc[T any] func(ctx context.Context, msg T) error

// Handle implements the Handler interface.
func (f HandlerFunc[T]) Handle(ctx context.Context, msg T) error {
	return f(ctx, msg)
}

// MessageHandler is the dynamic registration interface. Implement it when the
// payload type is not expressible as a compile-time type parameter at the
// registration site — for example when handlers are assembled from
// configuration. Dynamic handlers declare their payload type by embedding
// Payload[T] (directly, or through any number of intermediate embedded
// structs).
//
// Example:
//
//	type tickSink struct {
//	    wsroute.Payload[StockTick]
//	}
//
//	func (s *tickSink) Handle(ctx context.Context, msg any) error {
//	    tick := msg.(StockTick)
//	    ...
//	}
type MessageHandler interface {
	Handle(ctx context.Context, msg any) error
}

// Payload declares the payload type of a MessageHandler. Embed it in the
// handler struct, or in any struct the handler embeds; the declaration is
// found by ResolvePayload however deep the embedding chain runs, including
// through intermediate generic structs that thread the type parameter along:
//
//	type sink[T any] struct {
//	    wsroute.Payload[T]
//	}
//
//	type tickSink struct {
//	    sink[StockTick]
//	}
type Payload[T any] struct{}

func (Payload[T]) payloadType() reflect.Type { return reflect.TypeFor[T]() }

// payloadCarrier is satisfied by any struct embedding Payload[T].
type payloadCarrier interface {
	payloadType() reflect.Type
}

// PongMessage carries the application data of a pong control frame. Handlers
// declaring it as their payload type receive pong frames.
type PongMessage struct {
	Data []byte
}

// rawHandler adapts a typed Handler to the dynamic MessageHandler interface
// so routes of different payload types can share one representation.
type rawHandler[T any] struct {
	h Handler[T]
}

func (a rawHandler[T]) Handle(ctx context.Context, msg any) error {
	m, ok := msg.(T)
	if !ok {
		return &DecodeError{Handler: handlerName(a.h), msg: "unexpected payload type"}
	}
	return a.h.Handle(ctx, m)
}

// handlerName names a handler for error messages and hooks.
func handlerName(h any) string {
	t := reflect.TypeOf(h)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
