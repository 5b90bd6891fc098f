// Package resource implements the bridge's resource datastore: an
// in-memory uuid-keyed map of CLIP resources with legacy v1 identity
// allocation, backed by SQLite for persistence across restarts.
package resource

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/luxbridge/luxd/internal/db"
)

// Record is a stored resource: its identity plus the serialized CLIP
// payload. The payload always embeds id and id_v1, so it can be returned
// to clients as-is.
type Record struct {
	ID      uuid.UUID
	RType   string
	IDV1    string
	Payload json.RawMessage
}

// Store holds all bridge resources. Reads take a shared lock; mutations
// persist to the database before updating the map, so a failed write
// never leaves memory ahead of disk.
type Store struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	v1seq   map[string]int
	keys    map[string]string // username -> devicetype
	db      *db.DB
}

// NewStore creates a resource store. database may be nil for an
// ephemeral, memory-only store.
func NewStore(database *db.DB) *Store {
	return &Store{
		records: make(map[uuid.UUID]Record),
		v1seq:   make(map[string]int),
		keys:    make(map[string]string),
		db:      database,
	}
}

// Load reads all persisted resources and application keys into memory
// and rebuilds the per-type v1 id counters.
func (s *Store) Load() error {
	if s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, rtype, id_v1, payload FROM resources`)
	if err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idStr, rtype, payload string
		var idV1 *string
		if err := rows.Scan(&idStr, &rtype, &idV1, &payload); err != nil {
			return fmt.Errorf("failed to scan resource row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			log.Warn().Str("id", idStr).Msg("Skipping resource with malformed id")
			continue
		}

		rec := Record{ID: id, RType: rtype, Payload: json.RawMessage(payload)}
		if idV1 != nil {
			rec.IDV1 = *idV1
			if n, ok := v1Number(*idV1); ok && n > s.v1seq[rtype] {
				s.v1seq[rtype] = n
			}
		}
		s.records[id] = rec
	}
	if err := rows.Err(); err != nil {
		return err
	}

	keyRows, err := s.db.Query(`SELECT username, devicetype FROM app_keys`)
	if err != nil {
		return fmt.Errorf("failed to load app keys: %w", err)
	}
	defer keyRows.Close()

	for keyRows.Next() {
		var username, devicetype string
		if err := keyRows.Scan(&username, &devicetype); err != nil {
			return err
		}
		s.keys[username] = devicetype
	}
	if err := keyRows.Err(); err != nil {
		return err
	}

	log.Info().
		Int("resources", len(s.records)).
		Int("app_keys", len(s.keys)).
		Msg("Resource store loaded")
	return nil
}

// NextV1ID allocates the next legacy path for a resource type, e.g.
// "/lights/3". Counters never reuse numbers within a store lifetime.
func (s *Store) NextV1ID(rtype string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v1seq[rtype]++
	return fmt.Sprintf("/%s/%d", v1Collection(rtype), s.v1seq[rtype])
}

// Add stores a new record and persists it.
func (s *Store) Add(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(rec); err != nil {
		return err
	}
	s.records[rec.ID] = rec
	return nil
}

// Get returns the record for id.
func (s *Store) Get(id uuid.UUID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok
}

// List returns all records of the given type, ordered by their legacy
// number so enumeration is stable.
func (s *Store) List(rtype string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := lo.Filter(lo.Values(s.records), func(r Record, _ int) bool {
		return r.RType == rtype
	})
	sortRecords(recs)
	return recs
}

// All returns every stored record, grouped by type, ordered by legacy
// number within each type.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := lo.Values(s.records)
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].RType != recs[j].RType {
			return recs[i].RType < recs[j].RType
		}
		return lessByV1(recs[i], recs[j])
	})
	return recs
}

// Update replaces the payload of an existing record and persists it.
func (s *Store) Update(id uuid.UUID, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("resource %s not found", id)
	}

	rec.Payload = payload
	if err := s.persist(rec); err != nil {
		return err
	}
	s.records[id] = rec
	return nil
}

// Delete removes a record from memory and disk.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("resource %s not found", id)
	}

	if s.db != nil {
		if _, err := s.db.Exec(`DELETE FROM resources WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete resource: %w", err)
		}
	}
	delete(s.records, id)
	return nil
}

// AddAppKey registers an application key (legacy whitelist entry).
func (s *Store) AddAppKey(username, devicetype, clientKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		_, err := s.db.Exec(`
			INSERT INTO app_keys (username, devicetype, client_key, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(username) DO UPDATE SET
				devicetype = excluded.devicetype
		`, username, devicetype, clientKey, time.Now().UTC().Unix())
		if err != nil {
			return fmt.Errorf("failed to store app key: %w", err)
		}
	}
	s.keys[username] = devicetype
	return nil
}

// HasAppKey reports whether username is a registered application.
func (s *Store) HasAppKey(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.keys[username]
	return ok
}

// persist upserts a record. Caller holds the write lock.
func (s *Store) persist(rec Record) error {
	if s.db == nil {
		return nil
	}

	var idV1 *string
	if rec.IDV1 != "" {
		idV1 = &rec.IDV1
	}

	_, err := s.db.Exec(`
		INSERT INTO resources (id, rtype, id_v1, payload, version, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			version = version + 1,
			updated_at = excluded.updated_at
	`, rec.ID.String(), rec.RType, idV1, string(rec.Payload), time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to persist resource: %w", err)
	}
	return nil
}

// v1Collection maps an rtype to its legacy URL collection name.
func v1Collection(rtype string) string {
	switch rtype {
	case "light":
		return "lights"
	case "grouped_light":
		return "groups"
	case "scene":
		return "scenes"
	default:
		return "legacy"
	}
}

// v1Number extracts the trailing number from a legacy path like
// "/lights/12".
func v1Number(idV1 string) (int, bool) {
	idx := strings.LastIndexByte(idV1, '/')
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(idV1[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func lessByV1(a, b Record) bool {
	na, aok := v1Number(a.IDV1)
	nb, bok := v1Number(b.IDV1)
	if aok && bok && na != nb {
		return na < nb
	}
	return a.ID.String() < b.ID.String()
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return lessByV1(recs[i], recs[j]) })
}
