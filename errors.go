package wsroute

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrPayloadUnresolved is returned when a handler's payload type cannot be
// determined: the handler takes an untyped message and declares no Payload
// tag anywhere in its embedding chain.
var ErrPayloadUnresolved = errors.New("payload type unresolved")

// ErrAmbiguousPayload is returned when a handler declares conflicting payload
// types at the same embedding depth.
var ErrAmbiguousPayload = errors.New("ambiguous payload declaration")

// ErrDuplicateCategory is returned when registering a handler for a message
// category that already has one.
var ErrDuplicateCategory = errors.New("category already has a handler")

// ErrNoRoute is returned by Dispatch when no handler is registered for the
// message category.
var ErrNoRoute = errors.New("no route for category")

// DeploymentError reports a decoder that failed validation at endpoint
// configuration time. It fires before any message is processed.
type DeploymentError struct {
	Decoder string
	Err     error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("decoder %s failed deployment: %v", e.Decoder, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// UnsupportedHandlerError reports a handler whose payload type matches no
// native category and no configured decoder.
type UnsupportedHandlerError struct {
	Handler string
	Payload reflect.Type
}

func (e *UnsupportedHandlerError) Error() string {
	return fmt.Sprintf("handler %s: no route for payload type %s", e.Handler, e.Payload)
}

// DecodeError reports a message that no decoder in a route's chain accepted,
// or a payload an adapter could not convert.
type DecodeError struct {
	Handler string
	Err     error
	msg     string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("handler %s: decode: %v", e.Handler, e.Err)
	case e.msg != "":
		return fmt.Sprintf("handler %s: %s", e.Handler, e.msg)
	default:
		return fmt.Sprintf("handler %s: no decoder accepted message", e.Handler)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }
