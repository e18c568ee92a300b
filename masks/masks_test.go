package masks_test

import (
	"testing"

	"requestlog-backend/masks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskReplacesSensitiveKeysAtAnyDepth(t *testing.T) {
	keys := masks.NewKeySet("password", "token")

	v, err := masks.FromJSON([]byte(`{
		"name": "a",
		"password": "secret",
		"nested": {
			"token": "t0ken",
			"keep": 42,
			"deeper": [{"password": "also-secret", "ok": true}]
		}
	}`))
	require.NoError(t, err)

	got := masks.Mask(v, keys)

	m := got.(masks.Map)
	assert.Equal(t, masks.String("a"), m["name"])
	assert.Equal(t, masks.String(masks.Token), m["password"])

	nested := m["nested"].(masks.Map)
	assert.Equal(t, masks.String(masks.Token), nested["token"])
	assert.Equal(t, masks.Number(42), nested["keep"])

	deeper := nested["deeper"].(masks.Seq)
	inner := deeper[0].(masks.Map)
	assert.Equal(t, masks.String(masks.Token), inner["password"])
	assert.Equal(t, masks.Bool(true), inner["ok"])
}

func TestMaskIsIdempotent(t *testing.T) {
	keys := masks.NewKeySet(masks.DefaultBodyKeys...)

	v, err := masks.FromJSON([]byte(`{"password":"x","list":[{"otp":"1234"}],"n":1.5}`))
	require.NoError(t, err)

	once := masks.Mask(v, keys)
	twice := masks.Mask(once, keys)
	assert.Equal(t, once, twice)
}

func TestMaskLeavesNonSensitiveStructureIntact(t *testing.T) {
	keys := masks.NewKeySet("secret")

	v, err := masks.FromJSON([]byte(`{"a":[1,2,3],"b":{"c":null},"d":"x"}`))
	require.NoError(t, err)

	got := masks.Mask(v, keys)
	out, err := masks.ToJSON(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,2,3],"b":{"c":null},"d":"x"}`, string(out))
}

func TestMaskSequenceScalarsPassThrough(t *testing.T) {
	// Sequence elements have no key, so scalars inside them are never
	// masked directly, even if the sequence sits under a sensitive key.
	keys := masks.NewKeySet("token")

	v, err := masks.FromJSON([]byte(`{"token":["a","b"]}`))
	require.NoError(t, err)

	got := masks.Mask(v, keys).(masks.Map)
	assert.Equal(t, masks.Seq{masks.String("a"), masks.String("b")}, got["token"])
}

type opaque struct{ N int }

func TestFromAnyStringifiesUnknownScalars(t *testing.T) {
	v := masks.FromAny(map[string]any{
		"weird": opaque{N: 7},
		"plain": "x",
	})

	m := v.(masks.Map)
	assert.Equal(t, masks.String("{7}"), m["weird"])
	assert.Equal(t, masks.String("x"), m["plain"])
}

func TestFromAnyStringifiedScalarsAreMaskable(t *testing.T) {
	keys := masks.NewKeySet("secret")

	v := masks.FromAny(map[string]any{"secret": opaque{N: 1}})
	got := masks.Mask(v, keys).(masks.Map)
	assert.Equal(t, masks.String(masks.Token), got["secret"])
}

func TestFromHeaderMapJoinsAndMasks(t *testing.T) {
	keys := masks.NewKeySet(masks.DefaultHeaderKeys...)

	h := masks.FromHeaderMap(map[string][]string{
		"Cookie":       {"a=1", "b=2"},
		"Content-Type": {"application/json"},
	})
	got := masks.Mask(h, keys).(masks.Map)

	assert.Equal(t, masks.String(masks.Token), got["Cookie"])
	assert.Equal(t, masks.String("application/json"), got["Content-Type"])
}

func TestFromStringMap(t *testing.T) {
	keys := masks.NewKeySet(masks.DefaultBodyKeys...)

	q := masks.FromStringMap(map[string]string{"token": "abc", "page": "2"})
	got := masks.Mask(q, keys).(masks.Map)

	assert.Equal(t, masks.String(masks.Token), got["token"])
	assert.Equal(t, masks.String("2"), got["page"])
}

func TestDefaultPolicies(t *testing.T) {
	body := masks.NewKeySet(masks.DefaultBodyKeys...)
	resp := masks.NewKeySet(masks.DefaultResponseKeys...)

	// password is a body secret but not a response secret.
	assert.True(t, body.Has("password"))
	assert.False(t, resp.Has("password"))
	// token is sensitive in both.
	assert.True(t, body.Has("token"))
	assert.True(t, resp.Has("token"))
}
