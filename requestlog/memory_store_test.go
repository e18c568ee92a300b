package requestlog_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"requestlog-backend/models"
	"requestlog-backend/requestlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestInsertIfAbsentConflictsOnlyOnKeyUserPair(t *testing.T) {
	store := requestlog.NewMemoryStore()

	require.NoError(t, store.InsertIfAbsent(&models.RequestRecord{Key: strptr("k1"), UserID: strptr("u1")}))

	// Same pair conflicts.
	err := store.InsertIfAbsent(&models.RequestRecord{Key: strptr("k1"), UserID: strptr("u1")})
	assert.ErrorIs(t, err, requestlog.ErrDuplicateKey)

	// Same key, different user: independent.
	assert.NoError(t, store.InsertIfAbsent(&models.RequestRecord{Key: strptr("k1"), UserID: strptr("u2")}))

	// NULLs never participate in the constraint.
	assert.NoError(t, store.InsertIfAbsent(&models.RequestRecord{UserID: strptr("u1")}))
	assert.NoError(t, store.InsertIfAbsent(&models.RequestRecord{UserID: strptr("u1")}))
	assert.NoError(t, store.InsertIfAbsent(&models.RequestRecord{Key: strptr("k1")}))
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	store := requestlog.NewMemoryStore()

	const n = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.InsertIfAbsent(&models.RequestRecord{Key: strptr("k1"), UserID: strptr("u1")})
			if err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, requestlog.ErrDuplicateKey)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestGetByKeyAndSaveRoundtrip(t *testing.T) {
	store := requestlog.NewMemoryStore()

	rec := &models.RequestRecord{Key: strptr("k1"), UserID: strptr("u1"), Method: "POST"}
	require.NoError(t, store.InsertIfAbsent(rec))

	_, err := store.GetByKey("k1", "u2")
	assert.ErrorIs(t, err, requestlog.ErrRecordNotFound)

	got, err := store.GetByKey("k1", "u1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	status := 201
	got.StatusCode = &status
	got.Response = []byte(`{"version":1,"status_code":201}`)
	require.NoError(t, store.Save(got))

	saved, err := store.GetByKey("k1", "u1")
	require.NoError(t, err)
	assert.True(t, saved.Replayable())
	require.NotNil(t, saved.StatusCode)
	assert.Equal(t, 201, *saved.StatusCode)

	// Mutating the returned copy must not leak into the store.
	saved.Response[0] = 'X'
	again, err := store.GetByKey("k1", "u1")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again.Response[0])
}
