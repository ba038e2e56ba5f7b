// Package checkcache memoizes dbcop.Check results on disk, so that a large
// history rerun against the same level does not pay for the saturation or
// linearization search twice. A byte-prefixed key space, one prefix per
// record kind, backs the cache, with a constructor returning (*Cache, error).
package checkcache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/linearization"
)

// Key prefixes, disjoint per record kind.
const (
	prefixWitness = byte(0x01) // witness:contentHash -> record (Valid == true)
	prefixError   = byte(0x02) // error:contentHash -> record (Valid == false)
)

// Cache is a badger-backed memoization table of Check outcomes.
type Cache struct {
	db *badger.DB
}

// Options configures Open.
type Options struct {
	// DataDir is the directory for storing cache files. Required unless
	// InMemory is set.
	DataDir string

	// InMemory runs the cache in memory only, useful for tests.
	InMemory bool
}

// Open creates or opens a persistent cache rooted at dataDir.
func Open(dataDir string) (*Cache, error) {
	return OpenWithOptions(Options{DataDir: dataDir})
}

// OpenInMemory creates an in-memory cache, discarded on Close.
func OpenInMemory() (*Cache, error) {
	return OpenWithOptions(Options{InMemory: true})
}

// OpenWithOptions opens a cache with custom badger settings.
func OpenWithOptions(opts Options) (*Cache, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	badgerOpts = badgerOpts.
		WithLogger(nil).
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open check cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// record is the JSON-serializable form of a Check outcome. Witness and
// error records share the shape; Valid distinguishes them.
type record struct {
	Valid            bool
	Kind             dbcop.WitnessKind                   `json:",omitempty"`
	CommitOrder      []history.TransactionID             `json:",omitempty"`
	SplitCommitOrder []linearization.PhaseVertex          `json:",omitempty"`
	SaturationEdges  []graph.Edge[history.TransactionID]  `json:",omitempty"`
	ErrorText        string                               `json:",omitempty"`
}

// contentHash derives a 64-bit content hash over the JSON encoding of
// sessions and level. Two histories that marshal identically (same
// sessions, same level) share a cache entry; that is exactly the notion of
// "same history" this cache is meant to memoize on.
func contentHash[Variable, Version comparable](sessions []history.Session[Variable, Version], level consistency.Level) (uint64, error) {
	data, err := json.Marshal(sessions)
	if err != nil {
		return 0, fmt.Errorf("checkcache: sessions not JSON-encodable: %w", err)
	}
	h := xxhash.New()
	h.Write(data)
	h.Write([]byte{byte(level)})
	return h.Sum64(), nil
}

func witnessKey(hash uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefixWitness
	binary.BigEndian.PutUint64(key[1:], hash)
	return key
}

func errorKey(hash uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefixError
	binary.BigEndian.PutUint64(key[1:], hash)
	return key
}

// Get looks up a previously stored Check(sessions, level) outcome. It
// reports ok == false on a cache miss or an undecodable entry; callers
// should fall back to running Check directly.
func Get[Variable, Version comparable](c *Cache, sessions []history.Session[Variable, Version], level consistency.Level) (w dbcop.Witness, checkErr error, ok bool) {
	hash, err := contentHash(sessions, level)
	if err != nil {
		return dbcop.Witness{}, nil, false
	}

	var rec record
	found := false
	err = c.db.View(func(txn *badger.Txn) error {
		if item, err := txn.Get(witnessKey(hash)); err == nil {
			found = true
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if item, err := txn.Get(errorKey(hash)); err == nil {
			found = true
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		return nil
	})
	if err != nil || !found {
		return dbcop.Witness{}, nil, false
	}

	if !rec.Valid {
		return dbcop.Witness{}, errors.New(rec.ErrorText), true
	}

	w = dbcop.Witness{
		Kind:             rec.Kind,
		CommitOrder:      rec.CommitOrder,
		SplitCommitOrder: rec.SplitCommitOrder,
	}
	if rec.Kind == dbcop.SaturationOrderWitness {
		g := graph.NewDiGraph[history.TransactionID]()
		for _, e := range rec.SaturationEdges {
			g.AddEdge(e.Source, e.Target)
		}
		w.SaturationOrder = g
	}
	return w, nil, true
}

// Put stores the outcome of Check(sessions, level) for later lookup by Get.
func Put[Variable, Version comparable](c *Cache, sessions []history.Session[Variable, Version], level consistency.Level, w dbcop.Witness, checkErr error) error {
	hash, err := contentHash(sessions, level)
	if err != nil {
		return err
	}

	if checkErr != nil {
		rec := record{Valid: false, ErrorText: checkErr.Error()}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("checkcache: encoding error record: %w", err)
		}
		return c.db.Update(func(txn *badger.Txn) error {
			return txn.Set(errorKey(hash), data)
		})
	}

	rec := record{Valid: true, Kind: w.Kind, CommitOrder: w.CommitOrder, SplitCommitOrder: w.SplitCommitOrder}
	if w.SaturationOrder != nil {
		rec.SaturationEdges = w.SaturationOrder.ToEdgeList()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("checkcache: encoding witness record: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(witnessKey(hash), data)
	})
}

// CheckCached runs dbcop.Check(sessions, level), consulting c first and
// populating it on a miss. A failure to read or write the cache is logged
// and otherwise ignored: the cache is an optimization, never a source of
// truth.
func CheckCached[Variable, Version comparable](c *Cache, sessions []history.Session[Variable, Version], level consistency.Level) (dbcop.Witness, error) {
	if w, checkErr, ok := Get(c, sessions, level); ok {
		return w, checkErr
	}

	w, checkErr := dbcop.Check(sessions, level)
	if putErr := Put(c, sessions, level, w, checkErr); putErr != nil {
		log.Printf("checkcache: failed to store result: %v", putErr)
	}
	return w, checkErr
}
