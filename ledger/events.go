package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/packedcell/tokenledger/common"
)

// Event signatures follow the canonical ERC-20 declarations so topic hashes
// match what any Ethereum log observer expects.
const (
	transferEventSig = "Transfer(address,address,uint256)"
	approvalEventSig = "Approval(address,address,uint256)"
)

var (
	// TransferTopic is keccak256 of the Transfer event signature.
	TransferTopic = common.BytesToHash(crypto.Keccak256([]byte(transferEventSig)))
	// ApprovalTopic is keccak256 of the Approval event signature.
	ApprovalTopic = common.BytesToHash(crypto.Keccak256([]byte(approvalEventSig)))
)

// Event is one emitted ledger notification. Topics[0] identifies the kind,
// the remaining topics carry the indexed addresses, Data holds the amount
// as a 32-byte word.
type Event struct {
	Topics []common.Hash
	Data   []byte
}

func newTransferEvent(from, to common.Address, amount *uint256.Int) Event {
	return Event{
		Topics: []common.Hash{TransferTopic, addressTopic(from), addressTopic(to)},
		Data:   amountWord(amount),
	}
}

func newApprovalEvent(owner, spender common.Address, amount *uint256.Int) Event {
	return Event{
		Topics: []common.Hash{ApprovalTopic, addressTopic(owner), addressTopic(spender)},
		Data:   amountWord(amount),
	}
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(common.LeftPad32(a.Bytes()))
}

func amountWord(a *uint256.Int) []byte {
	b := a.Bytes32()
	return b[:]
}

// Amount decodes the event's data word.
func (ev Event) Amount() *uint256.Int {
	return new(uint256.Int).SetBytes(ev.Data)
}

// topicAddress recovers the address stored in topic i, or the zero address if
// the topic is absent.
func (ev Event) topicAddress(i int) common.Address {
	if i >= len(ev.Topics) {
		return common.Address{}
	}
	return common.BytesToAddress(ev.Topics[i].Bytes()[12:])
}

func (ev Event) String() string {
	if len(ev.Topics) == 0 {
		return "Event{}"
	}
	switch ev.Topics[0] {
	case TransferTopic:
		return fmt.Sprintf("Transfer(from=%s, to=%s, amount=%s)",
			ev.topicAddress(1), ev.topicAddress(2), ev.Amount().Dec())
	case ApprovalTopic:
		return fmt.Sprintf("Approval(owner=%s, spender=%s, amount=%s)",
			ev.topicAddress(1), ev.topicAddress(2), ev.Amount().Dec())
	default:
		return fmt.Sprintf("Event(topic=%s)", common.Str(ev.Topics[0]))
	}
}

// Encode serializes the event for the journal:
// [1B topic count][topics 32*N][4B data length, little-endian][data]
func (ev Event) Encode() []byte {
	out := make([]byte, 0, 1+32*len(ev.Topics)+4+len(ev.Data))
	out = append(out, byte(len(ev.Topics)))
	for _, topic := range ev.Topics {
		out = append(out, topic.Bytes()...)
	}
	var dataLen [4]byte
	binary.LittleEndian.PutUint32(dataLen[:], uint32(len(ev.Data)))
	out = append(out, dataLen[:]...)
	out = append(out, ev.Data...)
	return out
}

// DecodeEvent parses an event serialized by Encode.
func DecodeEvent(b []byte) (Event, error) {
	if len(b) < 1 {
		return Event{}, fmt.Errorf("event truncated: no topic count")
	}
	topicCount := int(b[0])
	offset := 1

	topics := make([]common.Hash, topicCount)
	for i := 0; i < topicCount; i++ {
		if offset+32 > len(b) {
			return Event{}, fmt.Errorf("event truncated at topic %d", i)
		}
		topics[i] = common.BytesToHash(b[offset : offset+32])
		offset += 32
	}

	if offset+4 > len(b) {
		return Event{}, fmt.Errorf("event truncated: no data length")
	}
	dataLen := binary.LittleEndian.Uint32(b[offset : offset+4])
	offset += 4

	if offset+int(dataLen) > len(b) {
		return Event{}, fmt.Errorf("event truncated: data shorter than declared")
	}
	data := make([]byte, dataLen)
	copy(data, b[offset:offset+int(dataLen)])

	return Event{Topics: topics, Data: data}, nil
}
