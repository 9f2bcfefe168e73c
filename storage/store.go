// Package storage provides the persistent cell store backing the token
// ledger: a goleveldb-backed word store, a transactional session that gives
// each operation all-or-nothing semantics, and an append-only event journal.
package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/packedcell/tokenledger/common"
)

// Key space: 's' ++ cell identity for state cells, 'e' ++ big-endian sequence
// number for journal entries, 'n' for the next sequence number. The sequence
// key must stay outside the 'e' prefix or journal iteration would pick it up.
var (
	statePrefix = []byte{'s'}
	eventPrefix = []byte{'e'}
	eventSeqKey = []byte{'n'}
)

// WordStore persists 32-byte storage cells in LevelDB.
// Thread-safe: LevelDB handles its own synchronization, and the router
// serializes mutating sessions on top of it.
type WordStore struct {
	db *leveldb.DB
}

// Open opens or creates a LevelDB database at the given path.
// If path is empty, uses in-memory storage.
func Open(path string) (*WordStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		memStorage := leveldbstorage.NewMemStorage()
		db, err = leveldb.Open(memStorage, nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	return &WordStore{db: db}, nil
}

// OpenMemory creates an in-memory WordStore for testing.
func OpenMemory() (*WordStore, error) {
	return Open("")
}

// GetWord retrieves a cell value. Returns (zero, false, nil) if the cell has
// never been written.
func (ws *WordStore) GetWord(slot common.Hash) (common.Hash, bool, error) {
	data, err := ws.db.Get(stateKey(slot), nil)
	if err == leveldb.ErrNotFound {
		return common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("GetWord %s: %w", common.Str(slot), err)
	}
	return common.BytesToHash(data), true, nil
}

// PutWord writes a single cell outside any session. Regular mutations go
// through a Session; this exists for tooling and tests.
func (ws *WordStore) PutWord(slot common.Hash, value common.Hash) error {
	return ws.db.Put(stateKey(slot), value.Bytes(), nil)
}

func (ws *WordStore) Close() error {
	return ws.db.Close()
}

func (ws *WordStore) nextEventSeq() (uint64, error) {
	data, err := ws.db.Get(eventSeqKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("event sequence read: %w", err)
	}
	return common.BytesToUint64(data), nil
}

func stateKey(slot common.Hash) []byte {
	return append(append([]byte{}, statePrefix...), slot.Bytes()...)
}

func eventKey(seq uint64) []byte {
	return append(append([]byte{}, eventPrefix...), common.Uint64ToBytes(seq)...)
}
