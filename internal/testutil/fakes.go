// Package testutil provides in-memory stand-ins for the MongoDB, Redis and
// GridFS backed stores.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"followership/internal/model"
	"followership/internal/storage"
)

// SessionCache is an in-memory cache.SessionCache
type SessionCache struct {
	mu     sync.Mutex
	states map[string]model.SessionState
	Err    error // Returned by every call when set
}

func NewSessionCache() *SessionCache {
	return &SessionCache{states: map[string]model.SessionState{}}
}

func (c *SessionCache) Set(_ context.Context, id string, state model.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.states[id] = state
	return nil
}

func (c *SessionCache) Get(_ context.Context, id string) (*model.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	st, ok := c.states[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (c *SessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, id)
	return nil
}

// StatsCache is an in-memory cache.StatsCache
type StatsCache struct {
	mu        sync.Mutex
	byType    map[string]int
	byCompany map[string]int
}

func NewStatsCache() *StatsCache {
	return &StatsCache{byType: map[string]int{}, byCompany: map[string]int{}}
}

func (c *StatsCache) Increment(_ context.Context, typeName, company string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byType[typeName]++
	c.byCompany[company]++
	return nil
}

func (c *StatsCache) Decrement(_ context.Context, typeName, company string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	decr(c.byType, typeName)
	decr(c.byCompany, company)
	return nil
}

func (c *StatsCache) ByType(context.Context) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.byType), nil
}

func (c *StatsCache) ByCompany(context.Context) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.byCompany), nil
}

func (c *StatsCache) Reset(_ context.Context, byType, byCompany map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byType = clone(byType)
	c.byCompany = clone(byCompany)
	return nil
}

// ReportRepo is an in-memory repository.ReportRepo
type ReportRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]model.ReportRecord
	Err     error
}

func NewReportRepo() *ReportRepo {
	return &ReportRepo{records: map[string]model.ReportRecord{}}
}

func (r *ReportRepo) Create(_ context.Context, record *model.ReportRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	r.seq++
	record.ID = fmt.Sprintf("%024x", r.seq)
	r.records[record.ID] = *record
	return record.ID, nil
}

func (r *ReportRepo) List(_ context.Context, limit int64) ([]*model.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.ReportRecord, 0, len(r.records))
	for _, rec := range r.records {
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) GetByID(_ context.Context, id string) (*model.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *ReportRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *ReportRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *ReportRepo) CountBy(_ context.Context, field string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, rec := range r.records {
		switch field {
		case "followershipType":
			counts[rec.FollowershipType]++
		case "company":
			counts[rec.Company]++
		default:
			return nil, fmt.Errorf("unsupported field %q", field)
		}
	}
	return counts, nil
}

// QuestionRepo is an in-memory repository.QuestionRepo
type QuestionRepo struct {
	mu        sync.Mutex
	Questions []model.Question
}

func (r *QuestionRepo) List(context.Context) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Question, len(r.Questions))
	copy(out, r.Questions)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *QuestionRepo) ReplaceAll(_ context.Context, questions []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Questions = append([]model.Question(nil), questions...)
	return nil
}

// BlobStore is an in-memory storage.BlobStore
type BlobStore struct {
	mu    sync.Mutex
	seq   int
	blobs map[string]Blob
}

// Blob is one stored object
type Blob struct {
	Key         string
	ContentType string
	Data        []byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string]Blob{}}
}

func (s *BlobStore) Put(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("blob-%d", s.seq)
	s.blobs[id] = Blob{Key: key, ContentType: contentType, Data: data}
	return id, nil
}

func (s *BlobStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

func (s *BlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

// Len returns the number of stored objects
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Get returns a stored object by id
func (s *BlobStore) Get(id string) (Blob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[id]
	return b, ok
}

// Broadcaster records every broadcast message and disconnect
type Broadcaster struct {
	mu           sync.Mutex
	Messages     []Message
	disconnected []string
}

// Message is one recorded broadcast
type Message struct {
	SessionID string
	Type      string
	Payload   interface{}
}

func (b *Broadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Messages = append(b.Messages, Message{SessionID: sessionID, Type: msgType, Payload: payload})
}

func (b *Broadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

// Disconnected returns the sessions whose sockets were closed, in order
func (b *Broadcaster) Disconnected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.disconnected...)
}

// Snapshot returns a copy of the recorded messages
func (b *Broadcaster) Snapshot() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.Messages...)
}

// PDF is a minimal byte slice that content sniffing reports as application/pdf
var PDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func decr(m map[string]int, k string) {
	m[k]--
	if m[k] <= 0 {
		delete(m, k)
	}
}

func clone(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
