package wsroute

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/tidwall/gjson"
)

// DecoderKind classifies a decoder by wire category and termination
// behavior. The kind is declared at registration; it is never inferred from
// the decoder's capabilities.
type DecoderKind uint8

const (
	// BinarySimple decoders are offered complete binary messages and may
	// decline them, so several can be configured for one payload type and
	// probed in order.
	BinarySimple DecoderKind = iota

	// BinaryStream decoders consume a binary message as a stream. They
	// cannot decline, so a stream decoder is always the last binary decoder
	// considered for a payload type.
	BinaryStream

	// TextSimple decoders are offered complete text messages and may
	// decline them.
	TextSimple

	// TextStream decoders consume a text message as a character stream and
	// cannot decline.
	TextStream
)

func (k DecoderKind) String() string {
	switch k {
	case BinarySimple:
		return "binary"
	case BinaryStream:
		return "binary-stream"
	case TextSimple:
		return "text"
	case TextStream:
		return "text-stream"
	default:
		return fmt.Sprintf("DecoderKind(%d)", uint8(k))
	}
}

// binary reports whether the kind belongs to the binary track.
func (k DecoderKind) binary() bool { return k == BinarySimple || k == BinaryStream }

// stream reports whether a match on this kind terminates its track.
func (k DecoderKind) stream() bool { return k == BinaryStream || k == TextStream }

// BinaryDecoder converts complete binary messages into a payload value.
// WillDecode lets the decoder decline a particular message so the next
// configured decoder can be probed.
type BinaryDecoder interface {
	WillDecode(data []byte) bool
	Decode(data []byte) (any, error)
}

// BinaryStreamDecoder converts a binary message consumed as a stream.
type BinaryStreamDecoder interface {
	Decode(r io.Reader) (any, error)
}

// TextDecoder converts complete text messages into a payload value.
type TextDecoder interface {
	WillDecode(text string) bool
	Decode(text string) (any, error)
}

// TextStreamDecoder converts a text message consumed as a character stream.
type TextStreamDecoder interface {
	Decode(r io.Reader) (any, error)
}

// DecoderEntry describes a configured decoder: the payload type it produces,
// its kind, and a zero-argument constructor. Entries are built with
// NewDecoderEntry and validated when the endpoint configuration is created.
type DecoderEntry struct {
	typ  reflect.Type
	kind DecoderKind
	ctor func() any
}

// PayloadType returns the payload type the decoder produces.
func (e DecoderEntry) PayloadType() reflect.Type { return e.typ }

// Kind returns the decoder's declared kind.
func (e DecoderEntry) Kind() DecoderKind { return e.kind }

func (e DecoderEntry) name() string {
	return fmt.Sprintf("%s[%s]", e.kind, e.typ)
}

// NewDecoderEntry describes a decoder producing payload type T. The
// constructor must return an instance implementing the interface matching
// kind; this is checked when the entry is added to an endpoint
// configuration.
func NewDecoderEntry[T any](kind DecoderKind, ctor func() any) DecoderEntry {
	return DecoderEntry{
		typ:  reflect.TypeFor[T](),
		kind: kind,
		ctor: ctor,
	}
}

// validate instantiates the decoder and checks the instance against the
// declared kind. Failing here fails endpoint deployment before any message
// is processed.
func (e DecoderEntry) validate() error {
	if e.ctor == nil {
		return &DeploymentError{Decoder: e.name(), Err: fmt.Errorf("nil constructor")}
	}
	inst := e.ctor()
	if inst == nil {
		return &DeploymentError{Decoder: e.name(), Err: fmt.Errorf("constructor returned nil")}
	}
	var ok bool
	switch e.kind {
	case BinarySimple:
		_, ok = inst.(BinaryDecoder)
	case BinaryStream:
		_, ok = inst.(BinaryStreamDecoder)
	case TextSimple:
		_, ok = inst.(TextDecoder)
	case TextStream:
		_, ok = inst.(TextStreamDecoder)
	}
	if !ok {
		return &DeploymentError{
			Decoder: e.name(),
			Err:     fmt.Errorf("%T does not implement the %s decoder interface", inst, e.kind),
		}
	}
	return nil
}

// EndpointConfig holds an endpoint's ordered decoder list. Order matters:
// it determines matching priority and the runtime probing order.
type EndpointConfig struct {
	decoders []DecoderEntry
}

// NewEndpointConfig validates every decoder entry and returns the
// configuration. Validation instantiates each decoder once; an entry whose
// constructor fails or whose instance does not match its declared kind
// returns a DeploymentError naming the decoder.
func NewEndpointConfig(decoders ...DecoderEntry) (*EndpointConfig, error) {
	for _, e := range decoders {
		if err := e.validate(); err != nil {
			return nil, err
		}
	}
	return &EndpointConfig{decoders: decoders}, nil
}

// Decoders returns the configured entries in priority order.
func (c *EndpointConfig) Decoders() []DecoderEntry {
	out := make([]DecoderEntry, len(c.decoders))
	copy(out, c.decoders)
	return out
}

// JSONDecoder is a text decoder that unmarshals JSON into T. WillDecode
// performs a cheap validity probe, and optionally checks that required paths
// exist, before committing to a full unmarshal. With several JSONDecoders
// configured for different payload types, the Require paths act as the
// per-message discriminator.
type JSONDecoder[T any] struct {
	// Require lists gjson paths that must exist for this decoder to accept
	// a message. Empty means any valid JSON is accepted.
	Require []string
}

func (d *JSONDecoder[T]) WillDecode(text string) bool {
	if !gjson.Valid(text) {
		return false
	}
	for _, path := range d.Require {
		if !gjson.Get(text, path).Exists() {
			return false
		}
	}
	return true
}

func (d *JSONDecoder[T]) Decode(text string) (any, error) {
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// JSONDecoderEntry returns a TextSimple entry for JSONDecoder[T] with the
// given required paths.
func JSONDecoderEntry[T any](require ...string) DecoderEntry {
	return NewDecoderEntry[T](TextSimple, func() any {
		return &JSONDecoder[T]{Require: require}
	})
}
