package requestlog

import "github.com/gofiber/fiber/v2"

// Error is a client-visible failure with a stable slug, rendered by the
// global error handler as {"message": ..., "error_slug": ...}.
type Error struct {
	Status int
	Detail string
	Slug   string
}

func (e *Error) Error() string { return e.Detail }

var (
	// ErrIdempotencyNotSupported is returned when a client supplies an
	// Idempotency-Key against an endpoint that does not support idempotent
	// execution. Surfaced instead of silently ignored: the client is
	// signalling a correctness assumption we cannot honor.
	ErrIdempotencyNotSupported = &Error{
		Status: fiber.StatusBadRequest,
		Detail: "Idempotency not supported.",
		Slug:   "idempotency_not_supported_error",
	}

	// ErrIdempotencyKeyTooLong rejects keys over MaxKeyLength.
	ErrIdempotencyKeyTooLong = &Error{
		Status: fiber.StatusBadRequest,
		Detail: "Idempotency-Key too long.",
		Slug:   "idempotency_key_invalid_error",
	}

	// ErrIdempotentRequestExists is the answer when a key is already
	// claimed but its record has no stored response yet: the winning
	// request is still executing, or died before finalizing. The claim
	// itself is normally converted into a replay and never reaches the
	// client; this escalation is the explicit "in progress" policy.
	ErrIdempotentRequestExists = &Error{
		Status: fiber.StatusConflict,
		Detail: "Idempotent request exists.",
		Slug:   "idempotency_request_exists_error",
	}
)
