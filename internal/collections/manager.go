package collections

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/shared"
)

// Remote is the endpoint set for one entity kind.
type Remote[T models.Entity] interface {
	List(ctx context.Context, credential string) ([]T, error)
	Create(ctx context.Context, credential string, item T) error
	Delete(ctx context.Context, credential, id string) error
}

// Updater is implemented by remotes that support in-place updates.
type Updater[T models.Entity] interface {
	Update(ctx context.Context, credential string, item T) error
}

// Session answers the routing question for every operation. [session.Controller] implements it.
type Session interface {
	Connected() bool
	Credential() string
}

// Config wires a [Manager].
type Config[T models.Entity] struct {
	Kind       string // label used in logs and events
	StorageKey string
	Store      repositories.KeyValueStore
	Remote     Remote[T]
	Session    Session
	Logger     *log.Logger
	Events     chan<- Event
}

// Snapshot is a copy of a manager's state for rendering. Entities that implement Clone are copied,
// so edits to a snapshot never reach the manager.
type Snapshot[T models.Entity] struct {
	Kind    string
	Local   []T
	Remote  []T
	Loading bool
	Ready   bool
}

// All returns local items followed by remote items.
func (s Snapshot[T]) All() []T {
	return append(append(make([]T, 0, len(s.Local)+len(s.Remote)), s.Local...), s.Remote...)
}

// Manager reconciles the local and remote sequences of one entity kind.
type Manager[T models.Entity] struct {
	kind    string
	key     string
	local   *repositories.LocalStore[T]
	remote  Remote[T]
	session Session
	logger  *log.Logger
	events  chan<- Event

	mu          sync.RWMutex
	localItems  []T
	remoteItems []T
	loading     bool
	ready       bool
}

// NewManager validates cfg and returns an empty manager. Call [Manager.Initialize] to populate it.
func NewManager[T models.Entity](cfg Config[T]) (*Manager[T], error) {
	if cfg.Store == nil || cfg.Session == nil || cfg.Remote == nil {
		return nil, fmt.Errorf("%w: store, remote and session are required", shared.ErrMissingArgument)
	}
	if cfg.StorageKey == "" {
		return nil, fmt.Errorf("%w: storage key is required", shared.ErrMissingArgument)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = shared.WithLogger(logger, "kind", cfg.Kind)

	return &Manager[T]{
		kind:        cfg.Kind,
		key:         cfg.StorageKey,
		local:       repositories.NewLocalStore[T](cfg.Store, logger),
		remote:      cfg.Remote,
		session:     cfg.Session,
		logger:      logger,
		events:      cfg.Events,
		localItems:  []T{},
		remoteItems: []T{},
	}, nil
}

// Kind returns the label the manager was configured with.
func (m *Manager[T]) Kind() string { return m.kind }

// Initialize populates both sequences. It is [Manager.Refresh] under another name.
func (m *Manager[T]) Initialize(ctx context.Context) error {
	return m.Refresh(ctx)
}

// Refresh reloads local items from the store and, when connected with a credential, re-fetches remote
// items. A failed fetch leaves the remote sequence empty and returns the failure; local items are loaded
// either way.
func (m *Manager[T]) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.ready = true
		m.mu.Unlock()
	}()

	items := m.local.Load(ctx, m.key)
	m.mu.Lock()
	m.localItems = items
	m.mu.Unlock()
	m.emit(Event{Op: OpLoadLocal, Total: len(items), Step: len(items)})

	credential := m.session.Credential()
	if !m.session.Connected() || credential == "" {
		m.setRemote([]T{})
		return nil
	}

	return m.fetchRemote(ctx, credential)
}

// fetchRemote replaces the remote sequence with a fresh listing, or clears it on failure.
func (m *Manager[T]) fetchRemote(ctx context.Context, credential string) error {
	items, err := m.remote.List(ctx, credential)
	if err != nil {
		m.setRemote([]T{})
		m.logger.Error("failed to fetch remote items", "error", err)
		m.emit(Event{Op: OpFetchRemote, Err: err})
		return err
	}

	fetched := make([]T, 0, len(items))
	for _, item := range items {
		item.Tag(models.SourceRemote)
		fetched = append(fetched, item)
	}
	m.setRemote(fetched)
	m.emit(Event{Op: OpFetchRemote, Step: len(fetched), Total: len(fetched)})
	return nil
}

func (m *Manager[T]) setRemote(items []T) {
	m.mu.Lock()
	m.remoteItems = items
	m.mu.Unlock()
}

// CreateLocal prepends item to the local sequence and persists it. It reports false when an item with the
// same id is already present, which leaves everything unchanged.
func (m *Manager[T]) CreateLocal(ctx context.Context, item T) bool {
	id := item.EntityID()
	if id == "" {
		return false
	}

	m.mu.Lock()
	if indexOf(m.localItems, id) >= 0 {
		m.mu.Unlock()
		return false
	}
	item.Tag(models.SourceLocal)
	m.localItems = append([]T{item}, m.localItems...)
	items := slices.Clone(m.localItems)
	m.mu.Unlock()

	m.persist(ctx, items)
	m.emit(Event{Op: OpCreateLocal, ID: id, Message: item.DisplayLabel()})
	return true
}

// createLocalMany prepends every item whose id is new, keeping their order, and persists once.
func (m *Manager[T]) createLocalMany(ctx context.Context, items []T) int {
	m.mu.Lock()
	fresh := make([]T, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := item.EntityID()
		if id == "" || seen[id] || indexOf(m.localItems, id) >= 0 {
			continue
		}
		seen[id] = true
		item.Tag(models.SourceLocal)
		fresh = append(fresh, item)
	}
	if len(fresh) == 0 {
		m.mu.Unlock()
		return 0
	}
	m.localItems = append(fresh, m.localItems...)
	snapshot := slices.Clone(m.localItems)
	m.mu.Unlock()

	m.persist(ctx, snapshot)
	return len(fresh)
}

// DeleteLocal removes id from the local sequence and persists the result. Deleting an absent id is a no-op
// that reports false.
func (m *Manager[T]) DeleteLocal(ctx context.Context, id string) bool {
	m.mu.Lock()
	i := indexOf(m.localItems, id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.localItems = slices.Delete(slices.Clone(m.localItems), i, i+1)
	items := slices.Clone(m.localItems)
	m.mu.Unlock()

	m.persist(ctx, items)
	m.emit(Event{Op: OpDeleteLocal, ID: id})
	return true
}

// UpdateLocal replaces the local item with the same id and persists. It reports false when absent.
func (m *Manager[T]) UpdateLocal(ctx context.Context, item T) bool {
	id := item.EntityID()

	m.mu.Lock()
	i := indexOf(m.localItems, id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	item.Tag(models.SourceLocal)
	next := slices.Clone(m.localItems)
	next[i] = item
	m.localItems = next
	items := slices.Clone(next)
	m.mu.Unlock()

	m.persist(ctx, items)
	m.emit(Event{Op: OpUpdateLocal, ID: id, Message: item.DisplayLabel()})
	return true
}

// CreateRemote sends item to the API and, on success, re-fetches the remote sequence so it holds exactly
// what the server returned.
func (m *Manager[T]) CreateRemote(ctx context.Context, item T) error {
	credential := m.session.Credential()
	if credential == "" {
		return shared.Unauthenticated()
	}

	if err := m.remote.Create(ctx, credential, item); err != nil {
		m.logger.Error("remote create failed", "label", item.DisplayLabel(), "error", err)
		m.emit(Event{Op: OpCreateRemote, ID: item.EntityID(), Err: err})
		return err
	}

	m.emit(Event{Op: OpCreateRemote, ID: item.EntityID(), Message: item.DisplayLabel()})
	return m.fetchRemote(ctx, credential)
}

// UpdateRemote sends item to the API and re-fetches on success.
func (m *Manager[T]) UpdateRemote(ctx context.Context, item T) error {
	updater, ok := m.remote.(Updater[T])
	if !ok {
		return fmt.Errorf("%w: %s cannot be updated remotely", shared.ErrNotImplemented, m.kind)
	}

	credential := m.session.Credential()
	if credential == "" {
		return shared.Unauthenticated()
	}

	if err := updater.Update(ctx, credential, item); err != nil {
		m.logger.Error("remote update failed", "id", item.EntityID(), "error", err)
		m.emit(Event{Op: OpUpdateRemote, ID: item.EntityID(), Err: err})
		return err
	}

	m.emit(Event{Op: OpUpdateRemote, ID: item.EntityID()})
	return m.fetchRemote(ctx, credential)
}

// DeleteRemote deletes id on the API. On success the item is dropped from memory without a re-fetch; on
// failure the remote sequence is left as it was.
func (m *Manager[T]) DeleteRemote(ctx context.Context, id string) error {
	credential := m.session.Credential()
	if credential == "" {
		return shared.Unauthenticated()
	}

	if err := m.remote.Delete(ctx, credential, id); err != nil {
		m.logger.Error("remote delete failed", "id", id, "error", err)
		m.emit(Event{Op: OpDeleteRemote, ID: id, Err: err})
		return err
	}

	m.mu.Lock()
	if i := indexOf(m.remoteItems, id); i >= 0 {
		m.remoteItems = slices.Delete(slices.Clone(m.remoteItems), i, i+1)
	}
	m.mu.Unlock()

	m.emit(Event{Op: OpDeleteRemote, ID: id})
	return nil
}

// Snapshot returns copies of both sequences and the loading flags.
func (m *Manager[T]) Snapshot() Snapshot[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot[T]{
		Kind:    m.kind,
		Local:   cloneAll(m.localItems),
		Remote:  cloneAll(m.remoteItems),
		Loading: m.loading,
		Ready:   m.ready,
	}
}

// FindLocal returns a copy of the local item with id.
func (m *Manager[T]) FindLocal(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := find(m.localItems, id)
	return cloneItem(item), ok
}

// FindRemote returns a copy of the remote item with id.
func (m *Manager[T]) FindRemote(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := find(m.remoteItems, id)
	return cloneItem(item), ok
}

// Find looks in the local sequence first, then the remote one.
func (m *Manager[T]) Find(id string) (T, bool) {
	if item, ok := m.FindLocal(id); ok {
		return item, true
	}
	return m.FindRemote(id)
}

// persist writes the local sequence. Cancellation of the caller does not abort the write.
func (m *Manager[T]) persist(ctx context.Context, items []T) {
	m.local.Save(context.WithoutCancel(ctx), m.key, items)
}

func (m *Manager[T]) emit(ev Event) {
	ev.Kind = m.kind
	sendEvent(m.events, ev)
}

func indexOf[T models.Entity](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.EntityID() == id })
}

func cloneItem[T models.Entity](item T) T {
	if c, ok := any(item).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return item
}

func cloneAll[T models.Entity](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}

func find[T models.Entity](items []T, id string) (T, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// IsNotFound reports whether err is a rejection with status 404.
func IsNotFound(err error) bool {
	if f, ok := shared.AsFailure(err); ok {
		return f.Kind == shared.FailureNotFound || (f.Kind == shared.FailureRejected && f.Status == 404)
	}
	return errors.Is(err, shared.ErrNotFound)
}
