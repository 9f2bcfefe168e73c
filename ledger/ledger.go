// Package ledger implements a fungible-token accounting engine over
// fixed-size packed storage cells. The engine validates and applies one
// operation at a time against a word-addressed State; atomicity and
// serialization are the caller's responsibility (see the router package).
package ledger

import (
	"github.com/holiman/uint256"

	"github.com/packedcell/tokenledger/common"
)

// State is the word-addressed store an operation reads and writes. Absent
// cells read as the zero word. Writes and logs accumulate in the State until
// the host commits or discards them, which gives every operation its
// all-or-nothing semantics.
type State interface {
	GetState(slot common.Hash) common.Hash
	SetState(slot common.Hash, value common.Hash)
	AddLog(ev Event)
}

// Ledger applies token operations to a State. It holds no state of its own;
// a fresh Ledger over the same State sees the same token.
type Ledger struct {
	state State
}

func New(state State) *Ledger {
	return &Ledger{state: state}
}

// Constructed reports whether Construct has committed. The total-supply cell
// is written exactly once and its packed value is never zero.
func (l *Ledger) Constructed() bool {
	return !common.IsNilHash(l.state.GetState(scalarSlot(totalSupplySlot)))
}

// Construct mints the initial supply to the deployer and stores the display
// strings. It runs at most once; any validation failure must leave no state
// behind.
func (l *Ledger) Construct(deployer common.Address, initialSupply *uint256.Int, name, symbol string) error {
	if l.Constructed() {
		return ErrAlreadyConstructed
	}
	if initialSupply.IsZero() {
		return ErrZeroInitialSupply
	}
	if !fits255(initialSupply) {
		return ErrSupplyTooLarge
	}
	nameCell, err := encodeShortString(name)
	if err != nil {
		return err
	}
	symbolCell, err := encodeShortString(symbol)
	if err != nil {
		return err
	}

	l.state.SetState(balanceSlot(deployer), encodeAmount(initialSupply))
	l.state.SetState(scalarSlot(totalSupplySlot), encodeAmount(initialSupply))
	l.state.SetState(scalarSlot(nameSlot), nameCell)
	l.state.SetState(scalarSlot(symbolSlot), symbolCell)

	l.state.AddLog(newTransferEvent(common.Address{}, deployer, initialSupply))
	return nil
}

// Transfer moves amount from sender to recipient. The amount needs no range
// check of its own: no stored balance ever exceeds 255 bits, so the balance
// comparison bounds it transitively.
func (l *Ledger) Transfer(sender, recipient common.Address, amount *uint256.Int) error {
	if recipient.IsZero() {
		return ErrZeroRecipient
	}

	senderBal := decodeAmount(l.state.GetState(balanceSlot(sender)))
	if senderBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.state.SetState(balanceSlot(sender), encodeAmount(senderBal.Sub(senderBal, amount)))

	// Recipient is read after the sender write so a self-transfer observes
	// the debited balance.
	recipientBal := decodeAmount(l.state.GetState(balanceSlot(recipient)))
	l.state.SetState(balanceSlot(recipient), encodeAmount(recipientBal.Add(recipientBal, amount)))

	l.state.AddLog(newTransferEvent(sender, recipient, amount))
	return nil
}

// Approve overwrites the allowance of spender over owner's balance. The
// all-ones amount is the unlimited sentinel; any other amount with the top
// bit set is rejected. Overwrite semantics mean concurrent approvals from
// the same owner race last-write-wins, which is the documented contract of
// this interface.
func (l *Ledger) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if !fits255(amount) && !amount.Eq(unlimitedAmount) {
		return ErrApprovalTooLarge
	}

	l.state.SetState(allowanceSlot(owner, spender), encodeAmount(amount))
	l.state.AddLog(newApprovalEvent(owner, spender, amount))
	return nil
}

// TransferFrom moves amount from owner to recipient on the spender's
// authority. An unlimited allowance is never decremented and emits no
// Approval event.
func (l *Ledger) TransferFrom(spender, owner, recipient common.Address, amount *uint256.Int) error {
	if recipient.IsZero() {
		return ErrZeroRecipient
	}

	allowanceCell := l.state.GetState(allowanceSlot(owner, spender))
	unlimited := isUnlimited(allowanceCell)
	allowed := decodeAmount(allowanceCell)
	if !unlimited && allowed.Lt(amount) {
		return ErrInsufficientAllowance
	}

	ownerBal := decodeAmount(l.state.GetState(balanceSlot(owner)))
	if ownerBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.state.SetState(balanceSlot(owner), encodeAmount(ownerBal.Sub(ownerBal, amount)))

	recipientBal := decodeAmount(l.state.GetState(balanceSlot(recipient)))
	l.state.SetState(balanceSlot(recipient), encodeAmount(recipientBal.Add(recipientBal, amount)))

	if !unlimited {
		newAllowance := allowed.Sub(allowed, amount)
		l.state.SetState(allowanceSlot(owner, spender), encodeAmount(newAllowance))
		l.state.AddLog(newApprovalEvent(owner, spender, newAllowance))
	}

	l.state.AddLog(newTransferEvent(owner, recipient, amount))
	return nil
}

// BalanceOf returns the decoded balance of account.
func (l *Ledger) BalanceOf(account common.Address) *uint256.Int {
	return decodeAmount(l.state.GetState(balanceSlot(account)))
}

// Allowance returns the decoded allowance of spender over owner's balance.
func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	return decodeAmount(l.state.GetState(allowanceSlot(owner, spender)))
}

// TotalSupply returns the decoded total supply.
func (l *Ledger) TotalSupply() *uint256.Int {
	return decodeAmount(l.state.GetState(scalarSlot(totalSupplySlot)))
}

// Name returns the packed name cell verbatim.
func (l *Ledger) Name() common.Hash {
	return l.state.GetState(scalarSlot(nameSlot))
}

// Symbol returns the packed symbol cell verbatim.
func (l *Ledger) Symbol() common.Hash {
	return l.state.GetState(scalarSlot(symbolSlot))
}

// Decimals returns the fixed decimal count of the asset.
func (l *Ledger) Decimals() uint8 {
	return Decimals
}
