// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package cache stores prior verification results keyed by a hash of the
// normalized claim text, with TTL expiry, a size bound, and best-effort
// YAML snapshot persistence.
package cache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// Entry is a summary projection of a VerificationResult. The full evidence
// list is deliberately not retained.
type Entry struct {
	Hash                  string         `yaml:"hash" json:"hash"`
	ClaimText             string         `yaml:"claim_text" json:"claim_text"`
	Normalized            string         `yaml:"normalized" json:"normalized"`
	Verdict               types.Verdict  `yaml:"verdict" json:"verdict"`
	Confidence            float64        `yaml:"confidence" json:"confidence"`
	Severity              types.Severity `yaml:"severity" json:"severity"`
	Explanation           string         `yaml:"explanation" json:"explanation"`
	TranslatedExplanation string         `yaml:"translated_explanation,omitempty" json:"translated_explanation,omitempty"`
	Correction            string         `yaml:"correction,omitempty" json:"correction,omitempty"`
	SourcesChecked        int            `yaml:"sources_checked" json:"sources_checked"`
	OverallReliability    float64        `yaml:"overall_reliability" json:"overall_reliability"`
	Diversity             float64        `yaml:"diversity" json:"diversity"`
	CheckedAt             time.Time      `yaml:"checked_at" json:"checked_at"`
}

// Match pairs a cache entry with its similarity to a query claim.
type Match struct {
	Entry      Entry
	Similarity float64
}

// Stats summarizes cache contents.
type Stats struct {
	Total      int
	ByVerdict  map[types.Verdict]int
	BySeverity map[types.Severity]int
}

// Cache is the claim result cache. One coarse mutex guards reads and
// writes alike; fine at the target scale of a few thousand entries.
type Cache struct {
	mu           sync.Mutex
	entries      map[string]Entry
	ttl          time.Duration
	maxEntries   int
	snapshotPath string
	warnings     io.Writer
}

// New builds a cache from configuration and loads the snapshot if one
// exists. Snapshot problems are reported to w and otherwise ignored.
func New(cfg types.CacheConfig, w io.Writer) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	c := &Cache{
		entries:      make(map[string]Entry),
		ttl:          ttl,
		maxEntries:   maxEntries,
		snapshotPath: cfg.SnapshotPath,
		warnings:     w,
	}
	c.loadSnapshot()
	return c
}

// Normalize lowercases the text, collapses whitespace, and strips common
// punctuation. Texts that normalize identically hash identically.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Join(strings.Fields(text), " ")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`.,!?;:"'()[]{}`, r) {
			return -1
		}
		return r
	}, text)
}

// Hash returns the cache key for a claim: the first 16 hex characters of
// the SHA-256 digest of the normalized text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return fmt.Sprintf("%x", sum)[:16]
}

// Get returns the cached entry for the claim text if present and not
// expired. An expired entry is evicted on the spot.
func (c *Cache) Get(text string) (Entry, bool) {
	key := Hash(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if time.Since(entry.CheckedAt) > c.ttl {
		delete(c.entries, key)
		return Entry{}, false
	}
	return entry, true
}

// Store summarizes the result under the claim's hash, purges expired
// entries, enforces the size bound by evicting oldest-first, and writes
// the snapshot. Snapshot I/O failure is logged, never rolled back.
func (c *Cache) Store(text string, result types.VerificationResult) string {
	key := Hash(text)
	entry := Entry{
		Hash:                  key,
		ClaimText:             text,
		Normalized:            Normalize(text),
		Verdict:               result.Verdict,
		Confidence:            result.Confidence,
		Severity:              result.Severity,
		Explanation:           result.Explanation,
		TranslatedExplanation: result.TranslatedExplanation,
		Correction:            result.Correction,
		SourcesChecked:        result.SourcesChecked,
		OverallReliability:    result.OverallReliability,
		Diversity:             result.Diversity,
		CheckedAt:             time.Now(),
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.purgeExpiredLocked()
	c.enforceSizeLocked()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.writeSnapshot(snapshot)
	return key
}

// FindSimilar returns non-expired entries whose normalized text has a
// token-set Jaccard similarity at or above threshold, sorted descending.
func (c *Cache) FindSimilar(text string, threshold float64) []Match {
	words := tokenSet(Normalize(text))
	if len(words) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var matches []Match
	for _, entry := range c.entries {
		if time.Since(entry.CheckedAt) > c.ttl {
			continue
		}
		entryWords := tokenSet(entry.Normalized)
		if len(entryWords) == 0 {
			continue
		}
		if sim := jaccard(words, entryWords); sim >= threshold {
			matches = append(matches, Match{Entry: entry, Similarity: sim})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// Stats counts cached entries by verdict and severity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Total:      len(c.entries),
		ByVerdict:  make(map[types.Verdict]int),
		BySeverity: make(map[types.Severity]int),
	}
	for _, entry := range c.entries {
		s.ByVerdict[entry.Verdict]++
		s.BySeverity[entry.Severity]++
	}
	return s
}

// Clear drops all entries and removes the snapshot file.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	if c.snapshotPath != "" {
		os.Remove(c.snapshotPath)
	}
}

func (c *Cache) purgeExpiredLocked() {
	for key, entry := range c.entries {
		if time.Since(entry.CheckedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) enforceSizeLocked() {
	excess := len(c.entries) - c.maxEntries
	if excess <= 0 {
		return
	}
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].CheckedAt.Before(c.entries[keys[j]].CheckedAt)
	})
	for _, key := range keys[:excess] {
		delete(c.entries, key)
	}
}

func (c *Cache) snapshotLocked() map[string]Entry {
	out := make(map[string]Entry, len(c.entries))
	for key, entry := range c.entries {
		out[key] = entry
	}
	return out
}

func (c *Cache) writeSnapshot(snapshot map[string]Entry) {
	if c.snapshotPath == "" {
		return
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		fmt.Fprintf(c.warnings, "warning: marshaling cache snapshot: %v\n", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.snapshotPath), 0o755); err != nil {
		fmt.Fprintf(c.warnings, "warning: creating snapshot directory: %v\n", err)
		return
	}
	if err := os.WriteFile(c.snapshotPath, data, 0o644); err != nil {
		fmt.Fprintf(c.warnings, "warning: writing cache snapshot: %v\n", err)
	}
}

func (c *Cache) loadSnapshot() {
	if c.snapshotPath == "" {
		return
	}
	data, err := os.ReadFile(c.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(c.warnings, "warning: reading cache snapshot: %v\n", err)
		}
		return
	}
	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(c.warnings, "warning: parsing cache snapshot: %v\n", err)
		return
	}
	if entries == nil {
		entries = make(map[string]Entry)
	}
	c.mu.Lock()
	c.entries = entries
	c.purgeExpiredLocked()
	c.mu.Unlock()
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		set[w] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
