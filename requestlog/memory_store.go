package requestlog

import (
	"strings"
	"sync"
	"time"

	"requestlog-backend/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It mirrors the database
// semantics (value copies in and out, NULLs never conflict) so the
// protocol can be exercised without Postgres.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  uint
	records []*models.RequestRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertIfAbsent(rec *models.RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Key != nil && rec.UserID != nil {
		for _, r := range s.records {
			if r.Key != nil && r.UserID != nil && *r.Key == *rec.Key && *r.UserID == *rec.UserID {
				return ErrDuplicateKey
			}
		}
	}

	s.nextID++
	rec.ID = s.nextID
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records = append(s.records, cloneRecord(rec))
	return nil
}

func (s *MemoryStore) GetByKey(key, userID string) (*models.RequestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Key != nil && r.UserID != nil && *r.Key == key && *r.UserID == userID {
			return cloneRecord(r), nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) Save(rec *models.RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.UpdatedAt = time.Now().UTC()
	for i, r := range s.records {
		if r.ID == rec.ID {
			s.records[i] = cloneRecord(rec)
			return nil
		}
	}
	// Unknown ID inserts, matching gorm's Save-on-new behavior.
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
		rec.CreatedAt = rec.UpdatedAt
	}
	s.records = append(s.records, cloneRecord(rec))
	return nil
}

// All returns a snapshot of every stored record, newest first. Test hook.
func (s *MemoryStore) All() []*models.RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.RequestRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, cloneRecord(s.records[i]))
	}
	return out
}

func cloneRecord(rec *models.RequestRecord) *models.RequestRecord {
	cp := *rec
	if rec.Key != nil {
		k := strings.Clone(*rec.Key)
		cp.Key = &k
	}
	if rec.UserID != nil {
		u := strings.Clone(*rec.UserID)
		cp.UserID = &u
	}
	if rec.StatusCode != nil {
		sc := *rec.StatusCode
		cp.StatusCode = &sc
	}
	if rec.ResourceType != nil {
		rt := *rec.ResourceType
		cp.ResourceType = &rt
	}
	if rec.ResourceID != nil {
		ri := *rec.ResourceID
		cp.ResourceID = &ri
	}
	cp.Params = append([]byte(nil), rec.Params...)
	cp.Headers = append([]byte(nil), rec.Headers...)
	cp.Body = append([]byte(nil), rec.Body...)
	cp.Response = append([]byte(nil), rec.Response...)
	return &cp
}
