// Package router is the reference call router over the accounting engine.
// It dispatches by 4-byte selector, decodes calldata, runs each operation in
// its own storage session, and commits or discards the session so every call
// is atomic. Callers are authenticated by the host before they get here; the
// router takes the caller address on faith.
package router

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/packedcell/tokenledger/common"
	"github.com/packedcell/tokenledger/ledger"
	"github.com/packedcell/tokenledger/log"
	"github.com/packedcell/tokenledger/storage"
)

// Method signatures of the call surface.
const (
	SigName         = "name()"
	SigSymbol       = "symbol()"
	SigDecimals     = "decimals()"
	SigTotalSupply  = "totalSupply()"
	SigBalanceOf    = "balanceOf(address)"
	SigTransfer     = "transfer(address,uint256)"
	SigAllowance    = "allowance(address,address)"
	SigApprove      = "approve(address,uint256)"
	SigTransferFrom = "transferFrom(address,address,uint256)"
)

var (
	ErrUnknownSelector = errors.New("R1|UnknownSelector: No operation matches the calldata selector.")
	ErrBadCalldata     = errors.New("R2|BadCalldata: Calldata length does not match the operation signature.")
)

var (
	selName         = sel4(SigName)
	selSymbol       = sel4(SigSymbol)
	selDecimals     = sel4(SigDecimals)
	selTotalSupply  = sel4(SigTotalSupply)
	selBalanceOf    = sel4(SigBalanceOf)
	selTransfer     = sel4(SigTransfer)
	selAllowance    = sel4(SigAllowance)
	selApprove      = sel4(SigApprove)
	selTransferFrom = sel4(SigTransferFrom)
)

func sel4(signature string) [selectorLen]byte {
	var s [selectorLen]byte
	copy(s[:], Selector(signature))
	return s
}

// Router serializes operations against one word store. The mutex reproduces
// the host serialization the engine's conservation invariant depends on.
type Router struct {
	mu sync.Mutex
	ws *storage.WordStore
}

func New(ws *storage.WordStore) *Router {
	return &Router{ws: ws}
}

// Deploy runs the one-time constructor.
func (r *Router) Deploy(deployer common.Address, initialSupply *uint256.Int, name, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.ws.NewSession()
	l := ledger.New(session)
	if err := l.Construct(deployer, initialSupply, name, symbol); err != nil {
		session.Discard()
		log.Warn(log.RouterMonitoring, "construct aborted", "reason", ledger.GetErrorName(err))
		return err
	}
	if err := session.Err(); err != nil {
		session.Discard()
		return err
	}
	if err := session.Commit(); err != nil {
		return err
	}
	log.Info(log.RouterMonitoring, "token constructed",
		"deployer", deployer.Hex(), "supply", initialSupply.Dec(), "symbol", symbol)
	return nil
}

// Call dispatches one external call. On success the session is committed and
// the ABI-encoded result returned; on abort every tentative write and event
// is discarded and the operation error returned.
func (r *Router) Call(caller common.Address, calldata []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(calldata) < selectorLen {
		return nil, ErrBadCalldata
	}
	var sel [selectorLen]byte
	copy(sel[:], calldata)
	args := calldata[selectorLen:]

	session := r.ws.NewSession()
	l := ledger.New(session)

	result, mutates, err := dispatch(l, caller, sel, args)
	if err == nil {
		err = session.Err()
	}
	if err != nil {
		session.Discard()
		log.Debug(log.RouterMonitoring, "call aborted",
			"caller", caller.Hex(), "reason", ledger.GetErrorName(err))
		return nil, err
	}
	if mutates {
		if err := session.Commit(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func dispatch(l *ledger.Ledger, caller common.Address, sel [selectorLen]byte, args []byte) (result []byte, mutates bool, err error) {
	switch sel {
	case selName:
		if len(args) != 0 {
			return nil, false, ErrBadCalldata
		}
		return ledger.ABIShortString(l.Name()), false, nil

	case selSymbol:
		if len(args) != 0 {
			return nil, false, ErrBadCalldata
		}
		return ledger.ABIShortString(l.Symbol()), false, nil

	case selDecimals:
		if len(args) != 0 {
			return nil, false, ErrBadCalldata
		}
		return encodeUint8(l.Decimals()), false, nil

	case selTotalSupply:
		if len(args) != 0 {
			return nil, false, ErrBadCalldata
		}
		return encodeUint256(l.TotalSupply()), false, nil

	case selBalanceOf:
		if len(args) != wordLen {
			return nil, false, ErrBadCalldata
		}
		return encodeUint256(l.BalanceOf(addressArg(args, 0))), false, nil

	case selAllowance:
		if len(args) != 2*wordLen {
			return nil, false, ErrBadCalldata
		}
		return encodeUint256(l.Allowance(addressArg(args, 0), addressArg(args, 1))), false, nil

	case selTransfer:
		if len(args) != 2*wordLen {
			return nil, false, ErrBadCalldata
		}
		if err := l.Transfer(caller, addressArg(args, 0), amountArg(args, 1)); err != nil {
			return nil, false, err
		}
		return encodeBool(true), true, nil

	case selApprove:
		if len(args) != 2*wordLen {
			return nil, false, ErrBadCalldata
		}
		if err := l.Approve(caller, addressArg(args, 0), amountArg(args, 1)); err != nil {
			return nil, false, err
		}
		return encodeBool(true), true, nil

	case selTransferFrom:
		if len(args) != 3*wordLen {
			return nil, false, ErrBadCalldata
		}
		if err := l.TransferFrom(caller, addressArg(args, 0), addressArg(args, 1), amountArg(args, 2)); err != nil {
			return nil, false, err
		}
		return encodeBool(true), true, nil
	}

	return nil, false, ErrUnknownSelector
}
