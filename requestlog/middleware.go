package requestlog

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"requestlog-backend/masks"
	"requestlog-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const (
	// HeaderIdempotencyKey transports the client-supplied token.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response served from the store
	// instead of a handler execution.
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// Locals keys shared with the auth middleware and handlers.
const (
	localUserID       = "userID"
	localResourceType = "resourceType"
	localResourceID   = "resourceID"
)

// SetUser records the authenticated user for the current request. Auth
// endpoints call this mid-handler so the finalizer can persist a record
// for a request that arrived anonymous.
func SetUser(c *fiber.Ctx, userID string) {
	c.Locals(localUserID, userID)
}

// TagResource attaches a resource classification to the in-flight request;
// it is copied onto the RequestRecord at finalization.
func TagResource(c *fiber.Ctx, resourceType models.ResourceType, resourceID string) {
	c.Locals(localResourceType, resourceType)
	c.Locals(localResourceID, resourceID)
}

// New builds the request-logging / idempotency middleware.
//
// Per request: decide whether idempotency applies; claim the (key, user)
// pair through the store's uniqueness constraint; on conflict replay the
// stored response instead of running the handler; otherwise run the
// handler and finalize the record with a masked, replayable copy of the
// response. Mount it outside any per-request transaction middleware so
// claims are durable independently of the handler's transaction.
func New(cfg Config) fiber.Handler {
	if cfg.Store == nil {
		panic("requestlog: Config.Store is required")
	}
	rc := cfg.resolve()

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(localUserID).(string)
		userID = strings.Clone(userID)
		key := strings.Clone(strings.TrimSpace(c.Get(rc.keyHeader)))

		d := Decide(userID, strings.ToUpper(c.Method()), key, rc.enabled)
		if d.Kind == Rejected {
			return d.Err
		}

		rec := captureRequest(c, rc)
		persisted := false

		switch d.Kind {
		case Applicable:
			rec.Key = &d.Key
			rec.UserID = &userID
			err := rc.store.InsertIfAbsent(rec)
			if err == nil {
				persisted = true
				break
			}
			if !errors.Is(err, ErrDuplicateKey) {
				return fmt.Errorf("idempotency claim failed: %w", err)
			}
			old, err := rc.store.GetByKey(d.Key, userID)
			if err != nil {
				return fmt.Errorf("idempotency lookup failed: %w", err)
			}
			if !old.Replayable() {
				// Claimed but not finalized: the winner is still running,
				// or crashed before storing its response.
				return ErrIdempotentRequestExists
			}
			return replay(c, rc.store, old)
		case NotApplicable:
			if userID != "" {
				rec.UserID = &userID
				if err := rc.store.InsertIfAbsent(rec); err != nil {
					return fmt.Errorf("request logging failed: %w", err)
				}
				persisted = true
			}
		}

		if err := c.Next(); err != nil {
			// No finalization: a claimed record stays response-less and the
			// key is blocked until external cleanup.
			return err
		}

		return finalize(c, rc, rec, persisted)
	}
}

// captureRequest builds the record for the incoming request with query
// params, headers and body already masked.
func captureRequest(c *fiber.Ctx, rc resolved) *models.RequestRecord {
	rec := &models.RequestRecord{
		Scheme:      c.Protocol(),
		Path:        c.Path(),
		Method:      strings.ToUpper(c.Method()),
		Encoding:    c.Get(fiber.HeaderContentEncoding),
		ContentType: c.Get(fiber.HeaderContentType),
	}
	rec.Params = toStoredJSON(masks.Mask(masks.FromStringMap(c.Queries()), rc.bodyKeys))
	rec.Headers = toStoredJSON(masks.Mask(masks.FromHeaderMap(c.GetReqHeaders()), rc.headerKeys))
	if body := captureBody(c, rc.bodyKeys); body != nil {
		rec.Body = toStoredJSON(body)
	}
	return rec
}

// captureBody parses and masks the request payload. JSON and form bodies
// are captured structurally; other content types are not logged.
func captureBody(c *fiber.Ctx, bodyKeys masks.KeySet) masks.Value {
	raw := c.Body()
	if len(raw) == 0 {
		return nil
	}
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.Contains(ct, "json"):
		v, err := masks.FromJSON(raw)
		if err != nil {
			return nil
		}
		return masks.Mask(v, bodyKeys)
	case strings.Contains(ct, "x-www-form-urlencoded"):
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil
		}
		m := make(masks.Map, len(vals))
		for k, vs := range vals {
			m[k] = masks.String(strings.Join(vs, ", "))
		}
		return masks.Mask(m, bodyKeys)
	default:
		return nil
	}
}

func toStoredJSON(v masks.Value) datatypes.JSON {
	data, err := masks.ToJSON(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// replay returns the stored response for an already-claimed key: same
// status and body as the original, plus the replay marker header. The
// record is only touched to refresh updated_at ("re-requested").
func replay(c *fiber.Ctx, store Store, old *models.RequestRecord) error {
	sr, err := DecodeResponse(old.Response)
	if err != nil {
		return err
	}
	if err := store.Save(old); err != nil {
		return fmt.Errorf("idempotency touch failed: %w", err)
	}
	for _, h := range sr.Headers {
		c.Set(h.Name, h.Value)
	}
	c.Set(HeaderIdempotentReplayed, "true")
	return c.Status(sr.StatusCode).Send(sr.Body)
}

// finalize attaches the response to the record. Responses with a JSON
// body are masked with the response policy before storage; the live
// response to the caller is not rewritten.
func finalize(c *fiber.Ctx, rc resolved, rec *models.RequestRecord, persisted bool) error {
	userID, _ := c.Locals(localUserID).(string)
	if rec.UserID == nil && userID != "" {
		// A user became known inside the handler (auth endpoints).
		rec.UserID = &userID
	}
	if !persisted && rec.UserID == nil {
		// Still anonymous: nothing to persist.
		return nil
	}

	status := c.Response().StatusCode()
	env, err := EncodeResponse(status, responseHeaders(c), storedResponseBody(c, rc.responseKeys))
	if err != nil {
		return fmt.Errorf("encode response failed: %w", err)
	}
	rec.StatusCode = &status
	rec.Response = env

	if rt, ok := c.Locals(localResourceType).(models.ResourceType); ok {
		if rc.resourceTypes != nil {
			if _, known := rc.resourceTypes[rt]; !known {
				log.Printf("requestlog: dropping unknown resource type %q", rt)
				rt = ""
			}
		}
		if rt != "" {
			rec.ResourceType = &rt
			if id, ok := c.Locals(localResourceID).(string); ok {
				rec.ResourceID = &id
			}
		}
	}

	if persisted {
		return rc.store.Save(rec)
	}
	return rc.store.InsertIfAbsent(rec)
}

// storedResponseBody returns the response payload as it will be persisted
// and later replayed: masked when structured, verbatim otherwise.
func storedResponseBody(c *fiber.Ctx, responseKeys masks.KeySet) []byte {
	raw := c.Response().Body()
	if len(raw) == 0 {
		return nil
	}
	ct := strings.ToLower(string(c.Response().Header.ContentType()))
	if !strings.Contains(ct, "json") {
		return append([]byte(nil), raw...)
	}
	v, err := masks.FromJSON(raw)
	if err != nil {
		return append([]byte(nil), raw...)
	}
	data, err := masks.ToJSON(masks.Mask(v, responseKeys))
	if err != nil {
		return append([]byte(nil), raw...)
	}
	return data
}

func responseHeaders(c *fiber.Ctx) []HeaderField {
	var fields []HeaderField
	c.Response().Header.VisitAll(func(k, v []byte) {
		name := string(k)
		switch name {
		case fiber.HeaderContentLength, fiber.HeaderDate, fiber.HeaderConnection:
			return
		}
		fields = append(fields, HeaderField{Name: name, Value: string(v)})
	})
	return fields
}
