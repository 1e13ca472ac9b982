// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody tracks the holder of every non-fungible asset and escrows
// staked assets in per-asset vaults.
package custody

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/solidity"
	"github.com/vechain/nftstake/state"
)

// Address is the storage address of the custody contract.
var Address = common.BytesToAddress([]byte("custody"))

var (
	slotHolders = common.BytesToBytes32([]byte("holders"))
	slotEscrow  = common.BytesToBytes32([]byte("escrow"))
)

var (
	ErrAssetExists    = errors.New("asset already registered")
	ErrUnknownAsset   = errors.New("unknown asset")
	ErrNotHolder      = errors.New("sender does not hold the asset")
	ErrNotInVault     = errors.New("asset is not in its vault")
	ErrEscrowUnderrun = errors.New("escrow count underflow")
)

// Vault implements the asset custody service.
type Vault struct {
	authority common.Address
	holders   *solidity.Mapping[common.Bytes32, common.Address]
	escrowed  *solidity.Mapping[common.Address, uint64]
}

// New creates the vault accepting withdrawals signed by authority.
func New(st *state.State, authority common.Address) *Vault {
	sctx := solidity.NewContext(Address, st)
	return &Vault{
		authority: authority,
		holders:   solidity.NewMapping[common.Bytes32, common.Address](sctx, slotHolders),
		escrowed:  solidity.NewMapping[common.Address, uint64](sctx, slotEscrow),
	}
}

// Register records a newly minted asset held by owner.
func (v *Vault) Register(asset common.Bytes32, owner common.Address) error {
	if owner.IsZero() {
		return errors.New("zero owner")
	}
	holder, err := v.HolderOf(asset)
	if err != nil {
		return err
	}
	if !holder.IsZero() {
		return ErrAssetExists
	}
	return v.holders.Set(asset, owner)
}

// HolderOf returns the current holder, zero for unknown assets.
func (v *Vault) HolderOf(asset common.Bytes32) (common.Address, error) {
	holder, err := v.holders.Get(asset)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to get holder")
	}
	return holder, nil
}

// Escrowed returns the count of assets user has in escrow.
func (v *Vault) Escrowed(user common.Address) (uint64, error) {
	n, err := v.escrowed.Get(user)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get escrow count")
	}
	return n, nil
}

// Deposit moves the asset from its holder into the asset vault.
func (v *Vault) Deposit(asset common.Bytes32, from common.Address) error {
	holder, err := v.HolderOf(asset)
	if err != nil {
		return err
	}
	if holder.IsZero() {
		return ErrUnknownAsset
	}
	if holder != from {
		return ErrNotHolder
	}
	if err := v.holders.Set(asset, derive.Vault(asset)); err != nil {
		return err
	}

	n, err := v.Escrowed(from)
	if err != nil {
		return err
	}
	return v.setEscrowed(from, n+1)
}

// Withdraw releases the asset from its vault to the given user.
func (v *Vault) Withdraw(asset common.Bytes32, to common.Address, proof derive.Proof) error {
	if err := proof.Verify(v.authority); err != nil {
		return err
	}
	holder, err := v.HolderOf(asset)
	if err != nil {
		return err
	}
	if holder != derive.Vault(asset) {
		return ErrNotInVault
	}

	n, err := v.Escrowed(to)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEscrowUnderrun
	}
	if err := v.holders.Set(asset, to); err != nil {
		return err
	}
	return v.setEscrowed(to, n-1)
}

func (v *Vault) setEscrowed(user common.Address, n uint64) error {
	if n == 0 {
		v.escrowed.Delete(user)
		return nil
	}
	return v.escrowed.Set(user, n)
}
