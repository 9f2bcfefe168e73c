package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/packedcell/tokenledger/ledger"
)

// EventJournal reads the append-only event log. Entries are keyed by a
// big-endian sequence number, so iteration order is emission order. Only
// committed sessions append; the journal itself never writes.
type EventJournal struct {
	ws *WordStore
}

func (ws *WordStore) Journal() *EventJournal {
	return &EventJournal{ws: ws}
}

// Count returns the number of journaled events.
func (j *EventJournal) Count() (uint64, error) {
	return j.ws.nextEventSeq()
}

// All returns every journaled event in emission order.
func (j *EventJournal) All() ([]ledger.Event, error) {
	iter := j.ws.db.NewIterator(util.BytesPrefix(eventPrefix), nil)
	defer iter.Release()

	var events []ledger.Event
	for iter.Next() {
		ev, err := ledger.DecodeEvent(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("journal entry %x: %w", iter.Key(), err)
		}
		events = append(events, ev)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("journal iteration: %w", err)
	}
	return events, nil
}
