package annotation

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"
)

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

// TestRegistry_Scenarios covers the basic mark and query flows.
func TestRegistry_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("manual mark adds the Scanned tag", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("http://h/p")

		if !r.HasTag("http://h/p", ScannedTag) {
			t.Error("expected Scanned tag after MarkManual")
		}
	})

	t.Run("active scan after manual mark wins", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("http://h/p")
		r.MarkActiveScanned("http://h/p")

		rec, ok := r.Lookup("http://h/p")
		if !ok {
			t.Fatal("expected record to exist")
		}
		if rec.Status != ScannedActive {
			t.Errorf("expected status %v, got %v", ScannedActive, rec.Status)
		}
	})

	t.Run("unknown URL is absent before any write", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		if r.HasURL("http://never-seen/") {
			t.Error("expected HasURL to be false on an empty registry")
		}
	})

	t.Run("equivalent URLs share one record", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("http://example.com:80/a?x=1")
		r.ToggleTag("http://example.com/a?x=2", "XSS")

		if r.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", r.Len())
		}
		if !r.HasTag("http://example.com/a#frag", "XSS") {
			t.Error("expected XSS tag on the shared record")
		}
	})

	t.Run("malformed URL is keyed verbatim", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("not a url")

		if !r.HasURL("not a url") {
			t.Error("expected malformed input to be stored under its raw string")
		}
		entries := r.ListAll()
		if len(entries) != 1 || entries[0].URL != "not a url" {
			t.Errorf("unexpected entries: %+v", entries)
		}
	})
}

// TestRegistry_MarkManual tests manual marking and the no-downgrade rule.
func TestRegistry_MarkManual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(r *Registry, url string)
		want  Status
	}{
		{
			name:  "creates record as manual",
			setup: func(*Registry, string) {},
			want:  ScannedManual,
		},
		{
			name:  "observed record becomes manual",
			setup: func(r *Registry, url string) { r.Observe(url) },
			want:  ScannedManual,
		},
		{
			name:  "manual twice stays manual",
			setup: func(r *Registry, url string) { r.MarkManual(url) },
			want:  ScannedManual,
		},
		{
			name:  "active is not downgraded",
			setup: func(r *Registry, url string) { r.MarkActiveScanned(url) },
			want:  ScannedActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const url = "https://target.example/login"
			r := NewRegistry()
			tt.setup(r, url)
			r.MarkManual(url)

			rec, ok := r.Lookup(url)
			if !ok {
				t.Fatal("expected record to exist")
			}
			if rec.Status != tt.want {
				t.Errorf("expected status %v, got %v", tt.want, rec.Status)
			}
		})
	}
}

// TestRegistry_MarkManualIdempotent tests that re-marking does not touch the record.
func TestRegistry_MarkManualIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithClock(fixedClock()))
	r.MarkManual("http://h/p")
	first, _ := r.Lookup("http://h/p")

	r.MarkManual("http://h/p")
	second, _ := r.Lookup("http://h/p")

	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("expected UpdatedAt unchanged, got %v then %v", first.UpdatedAt, second.UpdatedAt)
	}
}

// TestRegistry_MarkActiveScanned tests that active marking always wins.
func TestRegistry_MarkActiveScanned(t *testing.T) {
	t.Parallel()

	sequences := map[string]func(r *Registry, url string){
		"fresh":          func(*Registry, string) {},
		"observed":       func(r *Registry, url string) { r.Observe(url) },
		"manual":         func(r *Registry, url string) { r.MarkManual(url) },
		"already active": func(r *Registry, url string) { r.MarkActiveScanned(url) },
		"toggled off": func(r *Registry, url string) {
			r.MarkManual(url)
			r.ToggleTag(url, ScannedTag)
		},
		"tagged": func(r *Registry, url string) { r.ToggleTag(url, "SQLi") },
	}

	for name, setup := range sequences {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			const url = "http://h/p"
			r := NewRegistry()
			setup(r, url)
			r.MarkActiveScanned(url)

			rec, _ := r.Lookup(url)
			if rec.Status != ScannedActive {
				t.Errorf("expected %v, got %v", ScannedActive, rec.Status)
			}
		})
	}

	t.Run("reports change exactly once", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("http://h/p")

		if !r.MarkActiveScanned("http://h/p") {
			t.Error("expected first active mark to report a change")
		}
		if r.MarkActiveScanned("http://h:80/p") {
			t.Error("expected second active mark on the same key to report no change")
		}
	})
}

// TestRegistry_ToggleTag tests tag toggling semantics.
func TestRegistry_ToggleTag(t *testing.T) {
	t.Parallel()

	t.Run("free-form tag toggles symmetrically", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/p", "XSS")
		if !r.HasTag("http://h/p", "XSS") {
			t.Fatal("expected XSS after first toggle")
		}
		r.ToggleTag("http://h/p", "XSS")
		if r.HasTag("http://h/p", "XSS") {
			t.Error("expected XSS removed after second toggle")
		}
		if !r.HasURL("http://h/p") {
			t.Error("expected record to remain after removing its only tag")
		}
	})

	t.Run("Scanned toggle round trips from NotScanned", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.Observe("http://h/p")
		r.ToggleTag("http://h/p", ScannedTag)

		rec, _ := r.Lookup("http://h/p")
		if rec.Status != ScannedManual {
			t.Fatalf("expected %v, got %v", ScannedManual, rec.Status)
		}

		r.ToggleTag("http://h/p", ScannedTag)
		rec, _ = r.Lookup("http://h/p")
		if rec.Status != NotScanned {
			t.Errorf("expected %v, got %v", NotScanned, rec.Status)
		}
	})

	t.Run("Scanned toggle round trips from ScannedManual", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkManual("http://h/p")
		r.ToggleTag("http://h/p", ScannedTag)
		r.ToggleTag("http://h/p", ScannedTag)

		rec, _ := r.Lookup("http://h/p")
		if rec.Status != ScannedManual {
			t.Errorf("expected %v, got %v", ScannedManual, rec.Status)
		}
	})

	t.Run("Scanned toggle is a no-op on active records", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.MarkActiveScanned("http://h/p")

		r.ToggleTag("http://h/p", ScannedTag)
		rec, _ := r.Lookup("http://h/p")
		if rec.Status != ScannedActive {
			t.Fatalf("expected %v after first toggle, got %v", ScannedActive, rec.Status)
		}

		r.ToggleTag("http://h/p", ScannedTag)
		rec, _ = r.Lookup("http://h/p")
		if rec.Status != ScannedActive {
			t.Errorf("expected %v after second toggle, got %v", ScannedActive, rec.Status)
		}
	})

	t.Run("toggle creates the record", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/new", "Param Miner")
		if !r.HasURL("http://h/new") {
			t.Error("expected toggle to create the record")
		}
	})

	t.Run("blank tag is ignored", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/p", "   ")
		if r.HasURL("http://h/p") {
			t.Error("expected blank tag not to create a record")
		}
	})

	t.Run("tags outside the vocabulary are accepted", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/p", "nuclei:cve-2021-44228")
		if !r.HasTag("http://h/p", "nuclei:cve-2021-44228") {
			t.Error("expected arbitrary tag to be stored")
		}
	})

	t.Run("tag labels are normalized", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		// e followed by a combining acute accent, then the precomposed rune.
		r.ToggleTag("http://h/p", " Cafe\u0301 ")
		if !r.HasTag("http://h/p", "Caf\u00e9") {
			t.Error("expected NFC-equivalent tag to match")
		}
	})
}

// TestRegistry_AddTag tests idempotent tag insertion.
func TestRegistry_AddTag(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.AddTag("http://h/p", "SQLi")
	r.AddTag("http://h/p", "SQLi")

	rec, _ := r.Lookup("http://h/p")
	if !slices.Equal(rec.Tags, []string{"SQLi"}) {
		t.Errorf("expected [SQLi], got %v", rec.Tags)
	}

	r.AddTag("http://h/p", ScannedTag)
	rec, _ = r.Lookup("http://h/p")
	if rec.Status != ScannedManual {
		t.Errorf("expected AddTag(Scanned) to mark manual, got %v", rec.Status)
	}
	if slices.Contains(rec.Tags, ScannedTag) {
		t.Error("Scanned must not be stored as a free-form tag")
	}
}

// TestRegistry_HasTag tests tag queries including the synthetic Scanned tag.
func TestRegistry_HasTag(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Observe("http://h/observed")
	r.MarkManual("http://h/manual")
	r.MarkActiveScanned("http://h/active")

	tests := []struct {
		url  string
		tag  string
		want bool
	}{
		{"http://h/missing", ScannedTag, false},
		{"http://h/missing", "XSS", false},
		{"http://h/observed", ScannedTag, false},
		{"http://h/manual", ScannedTag, true},
		{"http://h/active", ScannedTag, true},
		{"http://h/active", "XSS", false},
	}

	for _, tt := range tests {
		if got := r.HasTag(tt.url, tt.tag); got != tt.want {
			t.Errorf("HasTag(%q, %q) = %v, want %v", tt.url, tt.tag, got, tt.want)
		}
	}
}

// TestRegistry_Lookup tests that reads never create records.
func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if _, ok := r.Lookup("http://h/p"); ok {
		t.Error("expected no record")
	}
	r.HasTag("http://h/p", "XSS")
	r.HasURL("http://h/p")

	if r.Len() != 0 {
		t.Errorf("expected reads not to create records, got %d", r.Len())
	}
}

// TestRegistry_Observe tests passive observation.
func TestRegistry_Observe(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if !r.Observe("http://h/p") {
		t.Error("expected first observation to create a record")
	}
	if r.Observe("http://h:80/p?q=1") {
		t.Error("expected second observation of the same resource not to create a record")
	}
	r.MarkActiveScanned("http://h/p")
	r.Observe("http://h/p")

	rec, _ := r.Lookup("http://h/p")
	if rec.Status != ScannedActive {
		t.Errorf("observation must not change status, got %v", rec.Status)
	}
}

// TestRegistry_ListAll tests insertion order and snapshot isolation.
func TestRegistry_ListAll(t *testing.T) {
	t.Parallel()

	t.Run("insertion order", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.Observe("http://h/c")
		r.MarkManual("http://h/a")
		r.ToggleTag("http://h/b", "XSS")
		r.MarkActiveScanned("http://h/a")

		var got []string
		for _, e := range r.ListAll() {
			got = append(got, e.URL)
		}
		want := []string{"http://h/c", "http://h/a", "http://h/b"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("snapshot is not affected by later writes", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/a", "XSS")
		snapshot := r.ListAll()

		r.ToggleTag("http://h/a", "SQLi")
		r.MarkActiveScanned("http://h/a")
		r.Observe("http://h/b")

		if len(snapshot) != 1 {
			t.Fatalf("expected 1 entry in snapshot, got %d", len(snapshot))
		}
		if snapshot[0].Record.Status != NotScanned {
			t.Errorf("expected snapshot status %v, got %v", NotScanned, snapshot[0].Record.Status)
		}
		if !slices.Equal(snapshot[0].Record.Tags, []string{"XSS"}) {
			t.Errorf("expected snapshot tags [XSS], got %v", snapshot[0].Record.Tags)
		}
	})

	t.Run("modifying the snapshot does not affect the registry", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.ToggleTag("http://h/a", "XSS")
		snapshot := r.ListAll()
		snapshot[0].Record.Tags[0] = "mutated"

		if !r.HasTag("http://h/a", "XSS") {
			t.Error("expected registry to keep its own tag set")
		}
	})
}

// TestRegistry_Timestamps tests FirstSeen and UpdatedAt bookkeeping.
func TestRegistry_Timestamps(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithClock(fixedClock()))
	r.Observe("http://h/p")
	before, _ := r.Lookup("http://h/p")

	r.ToggleTag("http://h/p", "XSS")
	after, _ := r.Lookup("http://h/p")

	if !after.FirstSeen.Equal(before.FirstSeen) {
		t.Error("FirstSeen must not change")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("expected UpdatedAt to advance, got %v then %v", before.UpdatedAt, after.UpdatedAt)
	}
}

// TestRegistry_Restore tests merging saved entries.
func TestRegistry_Restore(t *testing.T) {
	t.Parallel()

	saved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	r := NewRegistry()
	r.MarkManual("http://h/a")
	r.ToggleTag("http://h/a", "XSS")

	r.Restore([]Entry{
		{URL: "http://h/a", Record: Record{Status: NotScanned, Tags: []string{"SQLi"}}},
		{URL: "http://h/b", Record: Record{Status: ScannedActive, Tags: []string{"Param Miner", ScannedTag}, FirstSeen: saved, UpdatedAt: saved}},
	})

	a, _ := r.Lookup("http://h/a")
	if a.Status != ScannedManual {
		t.Errorf("expected restore not to downgrade, got %v", a.Status)
	}
	if !slices.Equal(a.Tags, []string{"SQLi", "XSS"}) {
		t.Errorf("expected tags to be unioned, got %v", a.Tags)
	}

	b, ok := r.Lookup("http://h/b")
	if !ok {
		t.Fatal("expected restored record")
	}
	if b.Status != ScannedActive {
		t.Errorf("expected %v, got %v", ScannedActive, b.Status)
	}
	if !slices.Equal(b.Tags, []string{"Param Miner"}) {
		t.Errorf("expected Scanned to be dropped from free-form tags, got %v", b.Tags)
	}
	if !b.FirstSeen.Equal(saved) {
		t.Errorf("expected FirstSeen %v, got %v", saved, b.FirstSeen)
	}

	entries := r.ListAll()
	if len(entries) != 2 || entries[1].URL != "http://h/b" {
		t.Errorf("expected restored key appended, got %+v", entries)
	}
}

// TestRegistry_Concurrent exercises the registry from many goroutines.
// Run with -race to check the locking discipline.
func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	t.Run("manual marks never downgrade a concurrent active mark", func(t *testing.T) {
		t.Parallel()

		for round := range 50 {
			r := NewRegistry()
			url := fmt.Sprintf("http://h/race/%d", round)

			var wg sync.WaitGroup
			start := make(chan struct{})
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				r.MarkActiveScanned(url)
			}()
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					r.MarkManual(url)
					r.ToggleTag(url, ScannedTag)
				}()
			}
			close(start)
			wg.Wait()

			rec, _ := r.Lookup(url)
			if rec.Status != ScannedActive {
				t.Fatalf("round %d: expected %v, got %v", round, ScannedActive, rec.Status)
			}
		}
	})

	t.Run("distinct keys from many writers", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		const writers = 16
		const perWriter = 100

		var wg sync.WaitGroup
		for w := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perWriter {
					url := fmt.Sprintf("http://h:80/w%d/%d?q=%d", w, i, i)
					r.Observe(url)
					r.ToggleTag(url, "XSS")
					r.MarkManual(url)
					_ = r.ListAll()
				}
			}()
		}
		wg.Wait()

		if r.Len() != writers*perWriter {
			t.Fatalf("expected %d records, got %d", writers*perWriter, r.Len())
		}
		for _, e := range r.ListAll() {
			if e.Record.Status != ScannedManual || !e.Record.HasTag("XSS") {
				t.Fatalf("unexpected record for %s: %+v", e.URL, e.Record)
			}
		}
	})

	t.Run("same key observed concurrently creates one record", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		var wg sync.WaitGroup
		var mu sync.Mutex
		created := 0
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if r.Observe("http://h/shared?x=1") {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if created != 1 {
			t.Errorf("expected exactly one creation, got %d", created)
		}
		if r.Len() != 1 {
			t.Errorf("expected 1 record, got %d", r.Len())
		}
	})
}

// TestRegistry_Vocabulary tests vocabulary configuration.
func TestRegistry_Vocabulary(t *testing.T) {
	t.Parallel()

	t.Run("default vocabulary", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		want := []string{"Scanned", "Param Miner", "XSS", "SQLi", "Custom Tag"}
		if got := r.Vocabulary().Tags(); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("custom vocabulary always includes Scanned", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(WithVocabulary("IDOR", " SSRF ", "IDOR", ""))
		want := []string{"Scanned", "IDOR", "SSRF"}
		if got := r.Vocabulary().Tags(); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if !r.Vocabulary().Contains("SSRF") {
			t.Error("expected vocabulary to contain SSRF")
		}
		if r.Vocabulary().Contains("XSS") {
			t.Error("did not expect default tags in a custom vocabulary")
		}
	})
}

// TestRegistry_WithCanonicalizer tests a custom key function.
func TestRegistry_WithCanonicalizer(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithCanonicalizer(func(string) string { return "key" }))
	r.MarkManual("http://a/")
	r.MarkManual("http://b/")

	if r.Len() != 1 {
		t.Errorf("expected custom canonicalizer to collapse keys, got %d records", r.Len())
	}
	if r.Key("anything") != "key" {
		t.Errorf("expected Key to use the custom canonicalizer")
	}
}
