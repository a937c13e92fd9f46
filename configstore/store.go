// Package configstore persists the bridge roster as a JSON file.
//
// A Record holds everything needed to dial one bridge: host, port, TLS flag,
// API key, and whether the fleet manager should connect it automatically.
// The Store loads the roster at Open, rewrites the file atomically on every
// mutation, and notifies watchers of added/updated/removed records so the
// fleet manager can react without polling.
package configstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/c360/bridgelink/errors"
)

// rosterVersion is written to the file for forward-compatible migrations.
const rosterVersion = 1

// watchBuffer is the headroom beyond the initial roster snapshot on each
// watcher channel.
const watchBuffer = 16

// ChangeOp identifies what happened to a record.
type ChangeOp string

// Change operations delivered to watchers.
const (
	OpAdded   ChangeOp = "added"
	OpUpdated ChangeOp = "updated"
	OpRemoved ChangeOp = "removed"
)

// Change is delivered to watchers when the roster mutates.
type Change struct {
	Op     ChangeOp
	Record Record
}

// rosterFile is the on-disk layout.
type rosterFile struct {
	Version int      `json:"version"`
	Bridges []Record `json:"bridges"`
}

// Store is a file-backed bridge roster with change notification.
type Store struct {
	path   string
	logger *slog.Logger

	mu          sync.RWMutex
	records     map[string]Record
	subscribers []chan Change

	stopped atomic.Bool
}

// Option configures store behavior.
type Option func(*storeOptions)

type storeOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for load warnings and dropped
// notifications. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *storeOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// DefaultPath returns the roster location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WrapFatal(err, "configstore", "DefaultPath", "resolve user config dir")
	}
	return filepath.Join(dir, "bridgelink", "bridges.json"), nil
}

// Open loads the roster from path. A missing file yields an empty store;
// the file is created on the first mutation.
func Open(path string, options ...Option) (*Store, error) {
	opts := &storeOptions{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	store := &Store{
		path:    path,
		logger:  opts.logger,
		records: make(map[string]Record),
	}

	data, err := readRosterFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.WrapTransient(err, "configstore", "Open", "read roster")
	}

	var roster rosterFile
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, errors.WrapFatal(err, "configstore", "Open", "parse roster")
	}

	for _, record := range roster.Bridges {
		if record.ID == "" {
			store.logger.Warn("Skipping roster entry without ID", "name", record.Name)
			continue
		}
		if _, exists := store.records[record.ID]; exists {
			store.logger.Warn("Skipping duplicate roster entry", "id", record.ID, "name", record.Name)
			continue
		}
		store.records[record.ID] = record
	}

	return store, nil
}

// Path returns the roster file location.
func (s *Store) Path() string {
	return s.path
}

// List returns all records sorted by name.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Get retrieves a record by ID.
func (s *Store) Get(id string) (Record, error) {
	if id == "" {
		return Record{}, errors.WrapInvalid(errors.ErrInvalidData, "configstore", "Get", "record ID cannot be empty")
	}

	s.mu.RLock()
	record, exists := s.records[id]
	s.mu.RUnlock()

	if !exists {
		return Record{}, errors.WrapInvalid(errors.ErrRecordNotFound, "configstore", "Get",
			fmt.Sprintf("no bridge with ID %s", id))
	}
	return record, nil
}

// FindByName retrieves a record by its unique name.
func (s *Store) FindByName(name string) (Record, error) {
	if name == "" {
		return Record{}, errors.WrapInvalid(errors.ErrInvalidData, "configstore", "FindByName", "name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.Name == name {
			return record, nil
		}
	}
	return Record{}, errors.WrapInvalid(errors.ErrRecordNotFound, "configstore", "FindByName",
		fmt.Sprintf("no bridge named %s", name))
}

// Add stores a new record and persists the roster. An empty ID gets a
// generated UUID; an empty port gets the bridge default. Returns the stored
// record with identity and timestamps filled in.
func (s *Store) Add(record Record) (Record, error) {
	if s.stopped.Load() {
		return Record{}, errors.WrapFatal(errors.ErrStoreClosed, "configstore", "Add", "store closed")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Port == 0 {
		record.Port = defaultPort
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := record.Validate(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	if _, exists := s.records[record.ID]; exists {
		s.mu.Unlock()
		return Record{}, errors.WrapInvalid(
			fmt.Errorf("bridge %s already exists", record.ID),
			"configstore", "Add", "uniqueness check failed")
	}
	if other, taken := s.nameTakenLocked(record.Name, record.ID); taken {
		s.mu.Unlock()
		return Record{}, errors.WrapInvalid(
			fmt.Errorf("name %q already used by bridge %s", record.Name, other),
			"configstore", "Add", "uniqueness check failed")
	}

	s.records[record.ID] = record
	if err := s.saveLocked(); err != nil {
		delete(s.records, record.ID)
		s.mu.Unlock()
		return Record{}, err
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpAdded, Record: record})
	return record, nil
}

// Update replaces an existing record and persists the roster. CreatedAt is
// preserved from the stored record.
func (s *Store) Update(record Record) (Record, error) {
	if s.stopped.Load() {
		return Record{}, errors.WrapFatal(errors.ErrStoreClosed, "configstore", "Update", "store closed")
	}
	if record.ID == "" {
		return Record{}, errors.WrapInvalid(errors.ErrInvalidData, "configstore", "Update", "record ID cannot be empty")
	}
	if record.Port == 0 {
		record.Port = defaultPort
	}

	s.mu.Lock()
	current, exists := s.records[record.ID]
	if !exists {
		s.mu.Unlock()
		return Record{}, errors.WrapInvalid(errors.ErrRecordNotFound, "configstore", "Update",
			fmt.Sprintf("no bridge with ID %s", record.ID))
	}
	if other, taken := s.nameTakenLocked(record.Name, record.ID); taken {
		s.mu.Unlock()
		return Record{}, errors.WrapInvalid(
			fmt.Errorf("name %q already used by bridge %s", record.Name, other),
			"configstore", "Update", "uniqueness check failed")
	}

	record.CreatedAt = current.CreatedAt
	record.UpdatedAt = time.Now()

	if err := record.Validate(); err != nil {
		s.mu.Unlock()
		return Record{}, err
	}

	s.records[record.ID] = record
	if err := s.saveLocked(); err != nil {
		s.records[record.ID] = current
		s.mu.Unlock()
		return Record{}, err
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpUpdated, Record: record})
	return record, nil
}

// Remove deletes a record and persists the roster.
func (s *Store) Remove(id string) error {
	if s.stopped.Load() {
		return errors.WrapFatal(errors.ErrStoreClosed, "configstore", "Remove", "store closed")
	}
	if id == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "configstore", "Remove", "record ID cannot be empty")
	}

	s.mu.Lock()
	record, exists := s.records[id]
	if !exists {
		s.mu.Unlock()
		return errors.WrapInvalid(errors.ErrRecordNotFound, "configstore", "Remove",
			fmt.Sprintf("no bridge with ID %s", id))
	}

	delete(s.records, id)
	if err := s.saveLocked(); err != nil {
		s.records[id] = record
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpRemoved, Record: record})
	return nil
}

// Watch subscribes to roster changes. The current records arrive immediately
// as added changes so a new watcher starts with the full roster. Sends never
// block; the channel is sized to hold the initial snapshot plus headroom.
// Watching a closed store yields a closed channel.
func (s *Store) Watch() <-chan Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		ch := make(chan Change)
		close(ch)
		return ch
	}

	ch := make(chan Change, len(s.records)+watchBuffer)
	s.subscribers = append(s.subscribers, ch)

	for _, record := range s.sortedLocked() {
		select {
		case ch <- Change{Op: OpAdded, Record: record}:
		default:
		}
	}

	return ch
}

// Unwatch removes a watcher and closes its channel.
func (s *Store) Unwatch(ch <-chan Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close stops the store and closes all watcher channels. The roster file is
// already current since every mutation persists.
func (s *Store) Close() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil // already closed
	}

	s.mu.Lock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()

	return nil
}

// notify delivers a change to all watchers.
func (s *Store) notify(change Change) {
	if s.stopped.Load() {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		// Non-blocking send
		select {
		case ch <- change:
			// Sent successfully
		default:
			s.logger.Warn("Dropping roster change, watcher not keeping up",
				"op", string(change.Op), "id", change.Record.ID)
		}
	}
}

// nameTakenLocked reports whether another record already uses the name.
// Caller holds s.mu.
func (s *Store) nameTakenLocked(name, selfID string) (string, bool) {
	for id, record := range s.records {
		if id != selfID && record.Name == name {
			return id, true
		}
	}
	return "", false
}

// sortedLocked returns records sorted by name for stable listing and
// persistence. Caller holds s.mu.
func (s *Store) sortedLocked() []Record {
	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
	return records
}

// saveLocked persists the roster. Caller holds s.mu.
func (s *Store) saveLocked() error {
	roster := rosterFile{
		Version: rosterVersion,
		Bridges: s.sortedLocked(),
	}

	data, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return errors.WrapFatal(err, "configstore", "save", "marshal roster")
	}

	if err := writeRosterFile(s.path, data); err != nil {
		return errors.WrapTransient(err, "configstore", "save", "write roster")
	}

	return nil
}
