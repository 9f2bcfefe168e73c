package storage

import (
	"testing"

	"github.com/packedcell/tokenledger/common"
)

func TestWordStoreBasicOperations(t *testing.T) {
	ws, err := OpenMemory()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ws.Close()

	slot := common.HexToHash("0x01")
	value := common.HexToHash("0xdeadbeef")

	if err := ws.PutWord(slot, value); err != nil {
		t.Fatalf("PutWord failed: %v", err)
	}

	got, found, err := ws.GetWord(slot)
	if err != nil {
		t.Fatalf("GetWord failed: %v", err)
	}
	if !found {
		t.Fatal("Expected cell to be found")
	}
	if got != value {
		t.Errorf("GetWord returned %s, want %s", got, value)
	}

	// Cells that were never written read as absent.
	got, found, err = ws.GetWord(common.HexToHash("0x02"))
	if err != nil {
		t.Fatalf("GetWord missing cell failed: %v", err)
	}
	if found {
		t.Error("Expected cell not to be found")
	}
	if !common.IsNilHash(got) {
		t.Errorf("absent cell should read as zero, got %s", got)
	}
}

func TestWordStoreKeySpaces(t *testing.T) {
	// A state cell whose identity begins with the event prefix byte must not
	// collide with journal entries.
	slot := common.HexToHash("0x6500000000000000000000000000000000000000000000000000000000000001")
	sk := stateKey(slot)
	ek := eventKey(0)
	if string(sk[:1]) == string(ek[:1]) {
		t.Fatal("state and event key spaces overlap")
	}
	if string(eventSeqKey) == string(ek[:len(eventSeqKey)]) {
		t.Fatal("sequence key lives inside the event prefix")
	}
	if len(sk) != 33 {
		t.Fatalf("state key length = %d, want 33", len(sk))
	}
	if len(ek) != 9 {
		t.Fatalf("event key length = %d, want 9", len(ek))
	}
}

func TestEventSequenceStartsAtZero(t *testing.T) {
	ws, err := OpenMemory()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ws.Close()

	seq, err := ws.nextEventSeq()
	if err != nil {
		t.Fatalf("nextEventSeq failed: %v", err)
	}
	if seq != 0 {
		t.Errorf("fresh store sequence = %d, want 0", seq)
	}
}
