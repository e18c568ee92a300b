package requestlog

import "github.com/gofiber/fiber/v2"

// MaxKeyLength caps the accepted Idempotency-Key header value.
const MaxKeyLength = 128

// DecisionKind says whether idempotency enforcement applies to a request.
type DecisionKind int

const (
	// NotApplicable: no key enforcement; the handler runs normally.
	NotApplicable DecisionKind = iota
	// Applicable: the key must be claimed before the handler runs.
	Applicable
	// Rejected: a client error is surfaced before any handler logic.
	Rejected
)

// Decision is the outcome of Decide. Key is set for Applicable, Err for
// Rejected.
type Decision struct {
	Kind DecisionKind
	Key  string
	Err  *Error
}

// Decide determines whether idempotency applies to an incoming request.
//
// A supplied key against an endpoint with idempotency disabled is always
// rejected, before the anonymous and method checks: silently ignoring the
// key could mask a client's correctness assumption. With no key there is
// nothing to enforce. Anonymous users and non-mutating methods never
// enforce, even when a key is present.
func Decide(userID, method, key string, endpointAllows bool) Decision {
	if key == "" {
		return Decision{Kind: NotApplicable}
	}
	if !endpointAllows {
		return Decision{Kind: Rejected, Err: ErrIdempotencyNotSupported}
	}
	if len(key) > MaxKeyLength {
		return Decision{Kind: Rejected, Err: ErrIdempotencyKeyTooLong}
	}
	if userID == "" {
		return Decision{Kind: NotApplicable}
	}
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		return Decision{Kind: Applicable, Key: key}
	default:
		return Decision{Kind: NotApplicable}
	}
}
