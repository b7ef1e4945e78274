package wsroute

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

type tick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

type typedTickHandler struct{}

func (typedTickHandler) Handle(ctx context.Context, t tick) error { return nil }

type readerHandler struct{}

func (readerHandler) Handle(ctx context.Context, r io.Reader) error { return nil }

// taggedSink declares its payload directly.
type taggedSink struct {
	Payload[tick]
}

func (*taggedSink) Handle(ctx context.Context, msg any) error { return nil }

// sink threads the payload type through one generic level.
type sink[T any] struct {
	Payload[T]
}

// midSink adds a second level without binding the type.
type midSink[U any] struct {
	sink[U]
}

// deepSink binds the payload type three embedding levels from the tag.
type deepSink struct {
	midSink[tick]
}

func (*deepSink) Handle(ctx context.Context, msg any) error { return nil }

// untaggedSink uses the dynamic interface without declaring a payload.
type untaggedSink struct{}

func (*untaggedSink) Handle(ctx context.Context, msg any) error { return nil }

// conflictedSink declares two payloads at the same depth.
type conflictedSink struct {
	sink[tick]
	sink2
}

type sink2 struct {
	Payload[string]
}

func (*conflictedSink) Handle(ctx context.Context, msg any) error { return nil }

// shadowSink declares string at depth one and tick deeper; the shallow
// declaration wins.
type shadowSink struct {
	Payload[string]
	midSink[tick]
}

func (*shadowSink) Handle(ctx context.Context, msg any) error { return nil }

func TestResolvePayload(t *testing.T) {
	t.Run("typed handler resolves from method signature", func(t *testing.T) {
		typ, err := ResolvePayload(typedTickHandler{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[tick]() {
			t.Errorf("type = %v, want %v", typ, reflect.TypeFor[tick]())
		}
	})

	t.Run("handler func resolves from signature", func(t *testing.T) {
		h := HandlerFunc[string](func(ctx context.Context, s string) error { return nil })
		typ, err := ResolvePayload(h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[string]() {
			t.Errorf("type = %v, want string", typ)
		}
	})

	t.Run("interface payload counts as a declaration", func(t *testing.T) {
		typ, err := ResolvePayload(readerHandler{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[io.Reader]() {
			t.Errorf("type = %v, want io.Reader", typ)
		}
	})

	t.Run("dynamic handler with direct tag", func(t *testing.T) {
		typ, err := ResolvePayload(&taggedSink{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[tick]() {
			t.Errorf("type = %v, want %v", typ, reflect.TypeFor[tick]())
		}
	})

	t.Run("tag threaded through intermediate generic levels", func(t *testing.T) {
		typ, err := ResolvePayload(&deepSink{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[tick]() {
			t.Errorf("type = %v, want %v", typ, reflect.TypeFor[tick]())
		}
	})

	t.Run("shallow declaration shadows deeper one", func(t *testing.T) {
		typ, err := ResolvePayload(&shadowSink{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ != reflect.TypeFor[string]() {
			t.Errorf("type = %v, want string", typ)
		}
	})

	t.Run("untyped handler without tag fails", func(t *testing.T) {
		_, err := ResolvePayload(&untaggedSink{})
		if !errors.Is(err, ErrPayloadUnresolved) {
			t.Errorf("error = %v, want ErrPayloadUnresolved", err)
		}
	})

	t.Run("error names the handler", func(t *testing.T) {
		_, err := ResolvePayload(&untaggedSink{})
		if err == nil || !strings.Contains(err.Error(), "untaggedSink") {
			t.Errorf("error %q does not name the handler", err)
		}
	})

	t.Run("conflicting declarations at one depth fail", func(t *testing.T) {
		_, err := ResolvePayload(&conflictedSink{})
		if !errors.Is(err, ErrAmbiguousPayload) {
			t.Errorf("error = %v, want ErrAmbiguousPayload", err)
		}
	})

	t.Run("nil handler fails", func(t *testing.T) {
		_, err := ResolvePayload(nil)
		if !errors.Is(err, ErrPayloadUnresolved) {
			t.Errorf("error = %v, want ErrPayloadUnresolved", err)
		}
	})
}
