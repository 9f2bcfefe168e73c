package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/packedcell/tokenledger/common"
)

func TestEventTopicsMatchCanonicalHashes(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		TransferTopic)
	require.Equal(t,
		common.HexToHash("0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925"),
		ApprovalTopic)
}

func TestEventEncodeDecode(t *testing.T) {
	from := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	to := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	ev := newTransferEvent(from, to, uint256.NewInt(400))
	decoded, err := DecodeEvent(ev.Encode())
	require.NoError(t, err)
	require.Equal(t, ev.Topics, decoded.Topics)
	require.Equal(t, ev.Data, decoded.Data)
	require.Equal(t, uint64(400), decoded.Amount().Uint64())
	require.Equal(t, from, decoded.topicAddress(1))
	require.Equal(t, to, decoded.topicAddress(2))
}

func TestDecodeEventTruncated(t *testing.T) {
	ev := newApprovalEvent(common.HexToAddress("0x01"), common.HexToAddress("0x02"), uint256.NewInt(1))
	raw := ev.Encode()

	_, err := DecodeEvent(nil)
	require.Error(t, err)
	_, err = DecodeEvent(raw[:20])
	require.Error(t, err)
	_, err = DecodeEvent(raw[:len(raw)-1])
	require.Error(t, err)
}

func TestEventString(t *testing.T) {
	owner := common.HexToAddress("0x01")
	spender := common.HexToAddress("0x02")

	s := newApprovalEvent(owner, spender, uint256.NewInt(100)).String()
	require.Contains(t, s, "Approval")
	require.Contains(t, s, "100")

	s = newTransferEvent(owner, spender, uint256.NewInt(7)).String()
	require.Contains(t, s, "Transfer")
}
