// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the fungible reward token minted on claims.
package rewards

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/solidity"
	"github.com/vechain/nftstake/state"
)

var (
	slotBalances = common.BytesToBytes32([]byte("balances"))
	slotSupply   = common.BytesToBytes32([]byte("total-supply"))
)

var ErrSupplyOverflow = errors.New("token supply overflow")

// Token is the reward token stored under its mint address.
type Token struct {
	mint      common.Address
	authority common.Address
	balances  *solidity.Mapping[common.Address, *big.Int]
	supply    *solidity.Raw[*big.Int]
}

// New creates the token at mint whose mint authority is authority.
func New(st *state.State, mint, authority common.Address) *Token {
	sctx := solidity.NewContext(mint, st)
	return &Token{
		mint:      mint,
		authority: authority,
		balances:  solidity.NewMapping[common.Address, *big.Int](sctx, slotBalances),
		supply:    solidity.NewRaw[*big.Int](sctx, slotSupply),
	}
}

// Address returns the mint address.
func (t *Token) Address() common.Address {
	return t.mint
}

// BalanceOf returns the token balance of addr.
func (t *Token) BalanceOf(addr common.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	supply, ok, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get supply")
	}
	if !ok {
		return new(big.Int), nil
	}
	return supply, nil
}

// Mint credits amount new tokens to addr.
func (t *Token) Mint(to common.Address, amount uint64, proof derive.Proof) error {
	if err := proof.Verify(t.authority); err != nil {
		return err
	}
	if to.IsZero() {
		return errors.New("mint to zero address")
	}

	delta := uint256.NewInt(amount)

	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, err := add(supply, delta)
	if err != nil {
		return err
	}

	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	newBal, err := add(bal, delta)
	if err != nil {
		return err
	}

	if err := t.balances.Set(to, newBal); err != nil {
		return err
	}
	return t.supply.Set(newSupply)
}

func add(x *big.Int, delta *uint256.Int) (*big.Int, error) {
	v, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrSupplyOverflow
	}
	if _, overflow := v.AddOverflow(v, delta); overflow {
		return nil, ErrSupplyOverflow
	}
	return v.ToBig(), nil
}
