//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/couchbase/querystats/errors"
	"github.com/couchbase/querystats/fingerprint"
	"github.com/couchbase/querystats/logging"
	"github.com/couchbase/querystats/settings"
	"github.com/couchbase/querystats/util"
)

const (
	_USAGE_INIT = 1.0

	// a sticky entry has no samples yet; seeding its usage at the
	// assumed median keeps it alive until its first real execution
	_STICKY_USAGE = 10.0

	_RELATION_CACHE_SIZE = 4096
)

// AggregateKey uniquely identifies one live aggregate entry. At most one
// entry exists per key at any time.
type AggregateKey struct {
	UserID     uint64
	DatabaseID uint64
	QueryID    uint64
	Bucket     int
}

// entry holds the statistics for one key. The store's shared lock keeps it
// from being evicted mid update; its own lock serializes counter mutation
// so unrelated statements never contend with each other.
type entry struct {
	sync.Mutex
	key        AggregateKey
	sticky     bool
	usage      float64
	counters   [_KIND_COUNT]KindCounters
	encoding   string
	clientHost string
	relations  string
	cpuUser    float64
	cpuSys     float64
}

func (this *entry) observe(kind StatementKind, s *Sample, host string, relations string,
	histMin, histStep float64, histBuckets int) {
	this.Lock()
	if this.sticky {
		this.sticky = false
		this.usage = _USAGE_INIT
	}
	this.counters[kind].observe(s.ElapsedMs, s.Rows, &s.Blocks, histMin, histStep, histBuckets)
	this.usage += 1.0
	this.cpuUser += s.CPUUser
	this.cpuSys += s.CPUSys
	if s.Encoding != "" {
		this.encoding = s.Encoding
	}
	if host != "" {
		this.clientHost = host
	}
	if relations != "" {
		this.relations = relations
	}
	this.Unlock()
}

// Sample is everything the host hands over for one observed statement.
// All resource counters are pre-diffed deltas between statement start and
// end. QueryLoc/QueryLen bound the statement within a possibly
// multi-statement RawText; -1 means the whole string. A zero QueryID asks
// the store to derive an identity by hashing the text, for statement kinds
// the fingerprint engine never sees.
type Sample struct {
	QueryID    uint64
	UserID     uint64
	DatabaseID uint64
	ConnID     uint64
	Kind       StatementKind
	RawText    string
	QueryLoc   int
	QueryLen   int
	State      *fingerprint.State
	ElapsedMs  float64
	Rows       uint64
	Blocks     BlockCounters
	CPUUser    float64
	CPUSys     float64
	Encoding   string
}

// relationCache is the side table carrying each statement's referenced
// relation names from identity observation to the next timing record,
// which consumes them. Bounded; when full new statements just lose their
// relation summary.
type relationCache struct {
	sync.Mutex
	m map[uint64]string
}

func (this *relationCache) put(queryId uint64, relations string) {
	this.Lock()
	if _, ok := this.m[queryId]; ok || len(this.m) < _RELATION_CACHE_SIZE {
		this.m[queryId] = relations
	}
	this.Unlock()
}

func (this *relationCache) take(queryId uint64) string {
	this.Lock()
	r, ok := this.m[queryId]
	if ok {
		delete(this.m, queryId)
	}
	this.Unlock()
	return r
}

func (this *relationCache) reset() {
	this.Lock()
	this.m = make(map[uint64]string)
	this.Unlock()
}

// Store is the time-bucketed aggregate statistics table. Its embedded
// RWMutex is the structural lock: shared for lookups and counter updates,
// exclusive for insert, evict, rotation and text buffer writes. Capacity
// is fixed at construction; the store never grows past it.
type Store struct {
	sync.RWMutex
	cfg     *settings.Settings
	started bool
	now     func() time.Time

	entries      map[AggregateKey]*entry
	bucketCounts []int
	rollups      map[RollupKey]*rollupEntry
	textBufs     []*textBuffer
	bucketTimes  []time.Time

	currentBucket int
	bucketStart   time.Time
	startTime     time.Time
	startMono     util.Time

	relationNames *relationCache
	clients       *clientRegistry

	overflow       uint64
	bucketOverflow uint64
	textOverflow   uint64
}

func NewStore(cfg *settings.Settings) *Store {
	s := &Store{
		cfg:           cfg,
		now:           time.Now,
		entries:       make(map[AggregateKey]*entry),
		bucketCounts:  make([]int, cfg.MaxBuckets),
		rollups:       make(map[RollupKey]*rollupEntry),
		textBufs:      make([]*textBuffer, cfg.MaxBuckets),
		bucketTimes:   make([]time.Time, cfg.MaxBuckets),
		relationNames: &relationCache{m: make(map[uint64]string)},
		clients:       newClientRegistry(),
	}
	for i := range s.textBufs {
		s.textBufs[i] = newTextBuffer(cfg.QueryBufSize)
	}
	return s
}

// Start arms the store. Recording before Start is silently dropped; the
// read side and Reset fail until Start has run.
func (this *Store) Start() {
	this.Lock()
	if !this.started {
		this.started = true
		now := this.now()
		this.startTime = now
		this.startMono = util.Now()
		this.bucketStart = now
		this.bucketTimes[0] = now
	}
	this.Unlock()
}

// RegisterStatement notes the relations a statement references, keyed by
// its fingerprint. Last writer wins.
func (this *Store) RegisterStatement(queryId uint64, relations []string) {
	if len(relations) == 0 {
		return
	}
	this.relationNames.put(queryId, strings.Join(relations, ","))
}

// RegisterClient associates a connection id with its remote address so
// per-statement recording never has to resolve it.
func (this *Store) RegisterClient(connId uint64, addr string) {
	this.clients.register(connId, addr)
}

func (this *Store) DeregisterClient(connId uint64) {
	this.clients.deregister(connId)
}

// Observe creates a sticky entry from statement identity alone, before any
// timing sample exists, and stores the statement text. A later Record for
// the same key unsticks it; rotation in between evicts it like any other
// entry.
func (this *Store) Observe(s *Sample) {
	if s == nil {
		return
	}
	text, queryId, offset := this.prepare(s)

	this.RLock()
	if !this.started {
		this.RUnlock()
		return
	}
	this.maybeRotate()
	key := AggregateKey{UserID: s.UserID, DatabaseID: s.DatabaseID, QueryID: queryId,
		Bucket: this.currentBucket}
	e := this.entries[key]
	this.RUnlock()
	if e != nil {
		return
	}

	stored := this.storedText(s, text, offset)
	this.Lock()
	this.createLocked(key, stored, true)
	this.Unlock()
}

// Record folds one completed statement into the store. It never fails
// loudly: capacity exhaustion increments an overflow counter and drops the
// write, leaving any existing statistics untouched.
func (this *Store) Record(s *Sample) {
	if s == nil || s.Kind < 0 || s.Kind >= _KIND_COUNT {
		return
	}
	if s.Kind == KIND_UTILITY && !this.cfg.TrackUtility {
		return
	}
	text, queryId, offset := this.prepare(s)

	this.RLock()
	if !this.started {
		this.RUnlock()
		return
	}
	this.maybeRotate()
	key := AggregateKey{UserID: s.UserID, DatabaseID: s.DatabaseID, QueryID: queryId,
		Bucket: this.currentBucket}
	e := this.entries[key]
	this.RUnlock()

	if e == nil {
		// the expensive part, done without any lock held; the
		// exclusive re-check below tolerates a racing creator
		stored := this.storedText(s, text, offset)
		this.Lock()
		e = this.createLocked(key, stored, false)
		this.Unlock()
		if e == nil {
			// capacity rejection
			return
		}
	}

	host := this.clients.host(s.ConnID)
	relations := this.relationNames.take(queryId)

	this.RLock()
	if this.entries[e.key] == e {
		e.observe(s.Kind, s, host, relations, this.cfg.HistogramMin, this.cfg.HistogramStep,
			this.cfg.HistogramBuckets)
		bucket := e.key.Bucket
		this.RUnlock()
		this.bump(RollupKey{Bucket: bucket, Dimension: DIM_DATABASE,
			Value: strconv.FormatUint(s.DatabaseID, 10), QueryID: queryId})
		this.bump(RollupKey{Bucket: bucket, Dimension: DIM_USER,
			Value: strconv.FormatUint(s.UserID, 10), QueryID: queryId})
		if host != "" {
			this.bump(RollupKey{Bucket: bucket, Dimension: DIM_HOST, Value: host,
				QueryID: queryId})
		}
	} else {
		// evicted by a rotation while we were off the lock
		this.RUnlock()
	}
}

// prepare extracts the statement's own text from the (possibly multi
// statement) raw string and settles its identity. Malformed bounds clamp
// to the whole string rather than failing. The returned offset is the byte
// position of the extracted text within the raw string (extraction point
// plus trimmed leading whitespace), which the normalizer needs to line the
// recorded constant locations up with the shifted text.
func (this *Store) prepare(s *Sample) (string, uint64, int) {
	text := s.RawText
	loc, length := s.QueryLoc, s.QueryLen
	if loc < 0 || loc > len(text) {
		loc = 0
		length = len(text)
	}
	if length < 0 || loc+length > len(text) {
		length = len(text) - loc
	}
	sub := text[loc : loc+length]
	lead := len(sub) - len(strings.TrimLeftFunc(sub, unicode.IsSpace))
	text = truncate(strings.TrimSpace(sub), this.cfg.QueryMaxLen)
	queryId := s.QueryID
	if queryId == 0 {
		queryId = fingerprint.HashText(text)
	}
	return text, queryId, loc + lead
}

func (this *Store) storedText(s *Sample, text string, offset int) string {
	if this.cfg.Normalize && s.State != nil {
		text = truncate(s.State.Normalize(text, offset), this.cfg.QueryMaxLen)
	}
	return text
}

// truncate clips text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

// maybeRotate upgrades to the exclusive lock and rotates when the current
// bucket's window has elapsed. Called and returns with the shared lock
// held.
func (this *Store) maybeRotate() {
	if !this.rotationDue(this.now()) {
		return
	}
	this.RUnlock()
	this.Lock()
	if now := this.now(); this.rotationDue(now) {
		this.rotate(now)
	}
	this.Unlock()
	this.RLock()
}

func (this *Store) rotationDue(now time.Time) bool {
	return now.Sub(this.bucketStart) > time.Duration(this.cfg.BucketTime)*time.Second
}

// rotate advances to the next slot in the ring, evicting whatever its
// previous generation left behind before anything else can see the new
// bucket. Caller holds the exclusive lock.
func (this *Store) rotate(now time.Time) {
	next := (this.currentBucket + 1) % this.cfg.MaxBuckets
	for k := range this.entries {
		if k.Bucket == next {
			delete(this.entries, k)
		}
	}
	this.bucketCounts[next] = 0
	for k := range this.rollups {
		if k.Bucket == next {
			delete(this.rollups, k)
		}
	}
	this.textBufs[next].reset()
	this.currentBucket = next
	this.bucketStart = now
	this.bucketTimes[next] = now
}

// createLocked adds an entry for key under the exclusive lock, fully
// initialized before the lock is released. Another thread racing us to the
// same key is not an error; its entry is returned. Returns nil on capacity
// rejection, with the matching overflow counter bumped.
func (this *Store) createLocked(key AggregateKey, text string, sticky bool) *entry {
	if e := this.entries[key]; e != nil {
		return e
	}
	if key.Bucket != this.currentBucket {
		// a rotation slipped in while we were off the lock; the
		// entry belongs in the new current bucket, starting from
		// zero
		key.Bucket = this.currentBucket
		if e := this.entries[key]; e != nil {
			return e
		}
	}
	if len(this.entries) >= this.cfg.MaxEntries {
		this.overflow++
		return nil
	}
	if this.bucketCounts[key.Bucket] >= this.cfg.MaxEntries/this.cfg.MaxBuckets {
		this.bucketOverflow++
		return nil
	}
	e := &entry{key: key, usage: _USAGE_INIT}
	if sticky {
		e.sticky = true
		e.usage = _STICKY_USAGE
	}
	this.entries[key] = e
	this.bucketCounts[key.Bucket]++
	if text != "" {
		if !this.textBufs[key.Bucket].append(key.QueryID, text) {
			if this.textOverflow == 0 {
				// once per reset; every rejection after the first
				// is only visible in the counter
				logging.Warnf("statement store: %v", errors.NewTextBufferFullWarning(key.Bucket))
			}
			this.textOverflow++
		}
	}
	return e
}
