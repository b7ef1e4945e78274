package wsroute

import (
	"context"
	"fmt"
	"reflect"
)

var (
	carrierType = reflect.TypeFor[payloadCarrier]()
	contextType = reflect.TypeFor[context.Context]()
)

// ResolvePayload determines the payload type a handler declares.
//
// A handler with a typed Handle method declares its payload through the
// method signature; that is the common case and resolves immediately. A
// dynamic handler (Handle over any) declares its payload by embedding
// Payload[T], possibly several embedding levels down with the type threaded
// through intermediate generic structs; the embedding tree is walked
// breadth-first and the shallowest declaration wins.
//
// Resolution fails with ErrPayloadUnresolved when the handler takes an
// untyped message and no declaration exists anywhere in the tree, and with
// ErrAmbiguousPayload when two declarations at the same depth disagree.
func ResolvePayload(handler any) (reflect.Type, error) {
	t := reflect.TypeOf(handler)
	if t == nil {
		return nil, fmt.Errorf("handler <nil>: %w", ErrPayloadUnresolved)
	}

	if m, ok := t.MethodByName("Handle"); ok {
		if typ, ok := typedPayloadParam(m); ok {
			return typ, nil
		}
	}

	typ, err := findPayloadTag(t)
	if err != nil {
		return nil, fmt.Errorf("handler %s: %w", t.String(), err)
	}
	return typ, nil
}

// typedPayloadParam extracts the payload parameter from a typed Handle
// method. An untyped signature (Handle(ctx, any)) does not count as a
// declaration; non-empty interface payloads (io.Reader and friends) do.
func typedPayloadParam(m reflect.Method) (reflect.Type, bool) {
	mt := m.Type
	// Receiver, context, payload.
	if mt.NumIn() != 3 || mt.NumOut() != 1 {
		return nil, false
	}
	if !mt.In(1).Implements(contextType) {
		return nil, false
	}
	p := mt.In(2)
	if p.Kind() == reflect.Interface && p.NumMethod() == 0 {
		return nil, false
	}
	return p, true
}

// findPayloadTag walks the embedded-struct tree breadth-first looking for
// Payload[T] declarations. Each level is checked before descending, so a
// declaration close to the handler shadows deeper ones; conflicting
// declarations at the same depth cannot be ordered and are an error.
func findPayloadTag(t reflect.Type) (reflect.Type, error) {
	seen := map[reflect.Type]bool{}
	level := []reflect.Type{derefStruct(t)}

	for len(level) > 0 {
		var found []reflect.Type
		for _, lt := range level {
			if typ, ok := tagOf(lt); ok {
				found = append(found, typ)
			}
		}
		switch {
		case len(found) == 1:
			return found[0], nil
		case len(found) > 1:
			for _, typ := range found[1:] {
				if typ != found[0] {
					return nil, ErrAmbiguousPayload
				}
			}
			return found[0], nil
		}

		var next []reflect.Type
		for _, lt := range level {
			if lt == nil || lt.Kind() != reflect.Struct || seen[lt] {
				continue
			}
			seen[lt] = true
			for i := 0; i < lt.NumField(); i++ {
				f := lt.Field(i)
				if !f.Anonymous {
					continue
				}
				next = append(next, derefStruct(f.Type))
			}
		}
		level = next
	}

	return nil, ErrPayloadUnresolved
}

// tagOf reports the payload type a single type declares, through promotion
// from however deep Payload[T] is embedded. Types with conflicting deeper
// declarations lose the promoted method and report false here; the walk then
// descends and surfaces the conflict.
func tagOf(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if t.Implements(carrierType) {
		return reflect.New(t).Elem().Interface().(payloadCarrier).payloadType(), true
	}
	if t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(carrierType) {
		return reflect.New(t).Interface().(payloadCarrier).payloadType(), true
	}
	return nil, false
}

func derefStruct(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
