package annotation

import (
	"sync"
	"time"

	"github.com/nao1215/scanmark/internal/canonical"
)

// Registry maps canonical URLs to annotation records.
//
// A single RWMutex guards the map and the insertion order. Every write holds
// the lock for the whole read-modify-write of one record, so status
// transitions are atomic per key and the no-downgrade rule holds under
// concurrent callers. Critical sections do no I/O.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*record

	// order lists canonical keys in insertion order for ListAll.
	order []string

	vocabulary   Vocabulary
	canonicalize func(string) string
	now          func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithVocabulary sets the tag vocabulary offered for selection.
func WithVocabulary(tags ...string) Option {
	return func(r *Registry) {
		r.vocabulary = NewVocabulary(tags...)
	}
}

// WithClock sets the time source used for FirstSeen and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCanonicalizer replaces the URL canonicalization function.
// The function must be pure and must not panic.
func WithCanonicalizer(fn func(string) string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.canonicalize = fn
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		records:      make(map[string]*record),
		vocabulary:   NewVocabulary(defaultVocabulary...),
		canonicalize: canonical.Canonicalize,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Vocabulary returns the configured tag vocabulary.
func (r *Registry) Vocabulary() Vocabulary {
	return r.vocabulary
}

// Key returns the canonical key the registry uses for url.
func (r *Registry) Key(url string) string {
	return r.canonicalize(url)
}

// upsert runs fn on the record for key under the write lock, creating the
// record first if needed. fn reports whether it changed the record.
// Must not be called with r.mu held.
func (r *Registry) upsert(key string, fn func(rec *record) bool) (created, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rec, ok := r.records[key]
	if !ok {
		rec = newRecord(now)
		r.records[key] = rec
		r.order = append(r.order, key)
		created = true
	}
	if fn != nil && fn(rec) {
		rec.updatedAt = now
		changed = true
	}
	return created, changed
}

// Observe records a passively observed URL. It creates a NotScanned record
// if none exists and reports whether one was created.
func (r *Registry) Observe(url string) bool {
	created, _ := r.upsert(r.canonicalize(url), nil)
	return created
}

// MarkManual marks url as manually scanned. An actively scanned record keeps
// its status. Marking twice is a no-op.
func (r *Registry) MarkManual(url string) {
	r.upsert(r.canonicalize(url), func(rec *record) bool {
		if rec.status != NotScanned {
			return false
		}
		rec.status = ScannedManual
		return true
	})
}

// MarkActiveScanned marks url as actively scanned regardless of its previous
// status. It reports whether the status changed, which is true exactly once
// per record.
func (r *Registry) MarkActiveScanned(url string) bool {
	_, changed := r.upsert(r.canonicalize(url), func(rec *record) bool {
		if rec.status == ScannedActive {
			return false
		}
		rec.status = ScannedActive
		return true
	})
	return changed
}

// ToggleTag flips tag on the record for url, creating the record if needed.
//
// For ScannedTag the status moves between NotScanned and ScannedManual; an
// actively scanned record is left alone. Other tags are added when absent and
// removed when present. Blank tags are ignored.
func (r *Registry) ToggleTag(url, tag string) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return
	}

	r.upsert(r.canonicalize(url), func(rec *record) bool {
		if tag == ScannedTag {
			switch rec.status {
			case NotScanned:
				rec.status = ScannedManual
			case ScannedManual:
				rec.status = NotScanned
			default:
				return false
			}
			return true
		}

		if _, ok := rec.tags[tag]; ok {
			delete(rec.tags, tag)
		} else {
			rec.tags[tag] = struct{}{}
		}
		return true
	})
}

// AddTag adds tag to the record for url, creating the record if needed.
// Adding ScannedTag behaves like MarkManual. Adding a tag twice is a no-op.
func (r *Registry) AddTag(url, tag string) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return
	}
	if tag == ScannedTag {
		r.MarkManual(url)
		return
	}

	r.upsert(r.canonicalize(url), func(rec *record) bool {
		if _, ok := rec.tags[tag]; ok {
			return false
		}
		rec.tags[tag] = struct{}{}
		return true
	})
}

// HasURL reports whether a record exists for url.
func (r *Registry) HasURL(url string) bool {
	key := r.canonicalize(url)

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.records[key]
	return ok
}

// HasTag reports whether the record for url carries tag. It returns false
// when no record exists.
func (r *Registry) HasTag(url, tag string) bool {
	key := r.canonicalize(url)
	tag = NormalizeTag(tag)

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[key]
	if !ok {
		return false
	}
	if tag == ScannedTag {
		return rec.status.Scanned()
	}
	_, ok = rec.tags[tag]
	return ok
}

// Lookup returns a snapshot of the record for url. It never creates a record.
func (r *Registry) Lookup(url string) (Record, bool) {
	key := r.canonicalize(url)

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[key]
	if !ok {
		return Record{}, false
	}
	return rec.snapshot(), true
}

// ListAll returns every entry in insertion order. The result is a deep copy
// taken at call time and is not affected by later writes.
func (r *Registry) ListAll() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, Entry{
			URL:    key,
			Record: r.records[key].snapshot(),
		})
	}
	return entries
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// Restore merges previously listed entries into the registry. Entry URLs are
// used as keys verbatim since they are already canonical. For existing keys
// the more informative status wins and tags are unioned. New keys are
// appended in the order given, keeping their saved timestamps.
func (r *Registry) Restore(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		rec, ok := r.records[e.URL]
		if !ok {
			rec = &record{
				status:    NotScanned,
				tags:      make(map[string]struct{}, len(e.Record.Tags)),
				firstSeen: e.Record.FirstSeen,
				updatedAt: e.Record.UpdatedAt,
			}
			if rec.firstSeen.IsZero() {
				rec.firstSeen = r.now()
			}
			if rec.updatedAt.IsZero() {
				rec.updatedAt = rec.firstSeen
			}
			r.records[e.URL] = rec
			r.order = append(r.order, e.URL)
		}

		if e.Record.Status > rec.status {
			rec.status = e.Record.Status
		}
		for _, tag := range e.Record.Tags {
			tag = NormalizeTag(tag)
			if tag == "" || tag == ScannedTag {
				continue
			}
			rec.tags[tag] = struct{}{}
		}
		if e.Record.FirstSeen.Before(rec.firstSeen) && !e.Record.FirstSeen.IsZero() {
			rec.firstSeen = e.Record.FirstSeen
		}
		if e.Record.UpdatedAt.After(rec.updatedAt) {
			rec.updatedAt = e.Record.UpdatedAt
		}
	}
}
