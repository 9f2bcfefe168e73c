package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/packedcell/tokenledger/common"
	"github.com/packedcell/tokenledger/ledger"
	"github.com/packedcell/tokenledger/log"
)

// Session is a transactional overlay over a WordStore. It implements
// ledger.State: reads fall through to the store, writes and events stay
// tentative until Commit flushes them in one LevelDB batch. Discard drops
// everything, so an aborted operation leaves no trace, events included.
//
// A session is for one operation and one goroutine; the router serializes
// sessions against each other.
type Session struct {
	ws      *WordStore
	overlay map[common.Hash]common.Hash
	events  []ledger.Event
	err     error
}

// NewSession starts an empty overlay over the store.
func (ws *WordStore) NewSession() *Session {
	return &Session{
		ws:      ws,
		overlay: make(map[common.Hash]common.Hash),
	}
}

// GetState returns the tentative value of a cell, or the committed value if
// the session has not written it. A store read failure is remembered and
// poisons the session; the zero word is returned so the operation can finish,
// and Commit will refuse.
func (s *Session) GetState(slot common.Hash) common.Hash {
	if value, ok := s.overlay[slot]; ok {
		return value
	}
	value, _, err := s.ws.GetWord(slot)
	if err != nil && s.err == nil {
		s.err = err
		log.Error(log.StoreMonitoring, "session read failed", "slot", common.Str(slot), "err", err)
	}
	return value
}

func (s *Session) SetState(slot common.Hash, value common.Hash) {
	s.overlay[slot] = value
}

func (s *Session) AddLog(ev ledger.Event) {
	s.events = append(s.events, ev)
}

// Events returns the tentative events of the session.
func (s *Session) Events() []ledger.Event {
	return s.events
}

// Err returns the first store read failure seen by the session, if any.
func (s *Session) Err() error {
	return s.err
}

// Commit writes every tentative cell and appends every tentative event to
// the journal in a single atomic batch.
func (s *Session) Commit() error {
	if s.err != nil {
		return fmt.Errorf("session poisoned by read failure: %w", s.err)
	}

	batch := new(leveldb.Batch)
	for slot, value := range s.overlay {
		batch.Put(stateKey(slot), value.Bytes())
	}
	if len(s.events) > 0 {
		seq, err := s.ws.nextEventSeq()
		if err != nil {
			return err
		}
		for i, ev := range s.events {
			batch.Put(eventKey(seq+uint64(i)), ev.Encode())
		}
		batch.Put(eventSeqKey, common.Uint64ToBytes(seq+uint64(len(s.events))))
	}

	if err := s.ws.db.Write(batch, nil); err != nil {
		return fmt.Errorf("session commit: %w", err)
	}
	log.Trace(log.StoreMonitoring, "session committed", "cells", len(s.overlay), "events", len(s.events))
	s.reset()
	return nil
}

// Discard drops every tentative write and event.
func (s *Session) Discard() {
	log.Trace(log.StoreMonitoring, "session discarded", "cells", len(s.overlay), "events", len(s.events))
	s.reset()
}

func (s *Session) reset() {
	s.overlay = make(map[common.Hash]common.Hash)
	s.events = nil
	s.err = nil
}
