package wsroute

import "reflect"

// decoderMatch holds the decoders applicable to a payload type, split by
// wire category and kept in configuration order. The order is what the
// dispatch adapters probe at runtime, so it must be deterministic.
type decoderMatch struct {
	binary []DecoderEntry
	text   []DecoderEntry
}

// matchDecoders selects the configured decoders applicable to target.
//
// A decoder applies when the target payload type is assignable to the type
// the decoder produces. Simple decoders may decline individual messages at
// runtime, so a simple match keeps the search open for later decoders of the
// same category. A stream decoder always consumes the message, so a stream
// match closes its own category; the other category is unaffected.
func matchDecoders(target reflect.Type, decoders []DecoderEntry) decoderMatch {
	var m decoderMatch
	var binaryDone, textDone bool

	for _, e := range decoders {
		if binaryDone && textDone {
			break
		}
		if !target.AssignableTo(e.typ) {
			continue
		}
		if e.kind.binary() {
			if binaryDone {
				continue
			}
			m.binary = append(m.binary, e)
			if e.kind.stream() {
				binaryDone = true
			}
		} else {
			if textDone {
				continue
			}
			m.text = append(m.text, e)
			if e.kind.stream() {
				textDone = true
			}
		}
	}

	return m
}
