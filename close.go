package wsroute

// CloseReason is the canonical reason taxonomy for close handshakes. Raw
// wire codes normalize into this closed set for user-facing reporting.
type CloseReason uint8

const (
	NormalClosure CloseReason = iota
	GoingAway
	ProtocolError
	CannotAccept
	NotConsistent
	ViolatedPolicy
	TooBig
	NoExtension
	UnexpectedCondition
)

func (r CloseReason) String() string {
	switch r {
	case NormalClosure:
		return "normal closure"
	case GoingAway:
		return "going away"
	case ProtocolError:
		return "protocol error"
	case CannotAccept:
		return "cannot accept"
	case NotConsistent:
		return "not consistent"
	case ViolatedPolicy:
		return "violated policy"
	case TooBig:
		return "too big"
	case NoExtension:
		return "no extension"
	case UnexpectedCondition:
		return "unexpected condition"
	default:
		return "unknown"
	}
}

// NormalizeCloseCode maps a raw close-handshake code to a CloseReason.
//
// The 3000-4999 range is application-defined and always normal. Within the
// 1000-1015 block, 1004, 1005, 1006, 1012, 1013 and 1015 are reserved for
// internal or transport-only use and must never appear in a peer-sent close
// frame, so they normalize to ProtocolError, as does every unknown code.
func NormalizeCloseCode(code int) CloseReason {
	if code > 2999 && code < 5000 {
		return NormalClosure
	}
	switch code {
	case 1000:
		return NormalClosure
	case 1001:
		return GoingAway
	case 1002:
		return ProtocolError
	case 1003:
		return CannotAccept
	case 1007:
		return NotConsistent
	case 1008:
		return ViolatedPolicy
	case 1009:
		return TooBig
	case 1010:
		return NoExtension
	case 1011:
		return UnexpectedCondition
	default:
		return ProtocolError
	}
}
