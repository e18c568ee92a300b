package requestlog

import (
	"requestlog-backend/masks"
	"requestlog-backend/models"
)

// Config wires one protocol instance. Everything the original read from
// process-wide settings is explicit here; mount separate instances for
// route groups with different capabilities.
type Config struct {
	// Store is required.
	Store Store

	// KeyHeader is the request header carrying the client token.
	// Defaults to "Idempotency-Key".
	KeyHeader string

	// IdempotencyEnabled is the endpoint capability flag for routes behind
	// this instance. When false, a supplied key is a client error, not
	// silently ignored.
	IdempotencyEnabled bool

	// Sensitive key sets; empty slices fall back to the masks defaults.
	// Query parameters are masked with the body set.
	HeaderKeys   []string
	BodyKeys     []string
	ResponseKeys []string

	// ResourceTypes closes the resource-type enumeration when non-empty;
	// tags outside it are dropped at finalize. Empty means open.
	ResourceTypes []models.ResourceType
}

// resolved is the normalized runtime form of Config.
type resolved struct {
	store         Store
	keyHeader     string
	enabled       bool
	headerKeys    masks.KeySet
	bodyKeys      masks.KeySet
	responseKeys  masks.KeySet
	resourceTypes map[models.ResourceType]struct{}
}

func (cfg Config) resolve() resolved {
	r := resolved{
		store:        cfg.Store,
		keyHeader:    cfg.KeyHeader,
		enabled:      cfg.IdempotencyEnabled,
		headerKeys:   masks.NewKeySet(orDefault(cfg.HeaderKeys, masks.DefaultHeaderKeys)...),
		bodyKeys:     masks.NewKeySet(orDefault(cfg.BodyKeys, masks.DefaultBodyKeys)...),
		responseKeys: masks.NewKeySet(orDefault(cfg.ResponseKeys, masks.DefaultResponseKeys)...),
	}
	if r.keyHeader == "" {
		r.keyHeader = HeaderIdempotencyKey
	}
	if len(cfg.ResourceTypes) > 0 {
		r.resourceTypes = make(map[models.ResourceType]struct{}, len(cfg.ResourceTypes))
		for _, rt := range cfg.ResourceTypes {
			r.resourceTypes[rt] = struct{}{}
		}
	}
	return r
}

func orDefault(keys, def []string) []string {
	if len(keys) == 0 {
		return def
	}
	return keys
}
