// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package derive computes the canonical location of every staking record
// from a seed tuple, and the authority proofs that let the configuration
// identity sign custody and issuance calls.
package derive

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
)

// Program is the identity that owns every derived address.
var Program = common.BytesToAddress([]byte("nftstake"))

// seed prefixes
var (
	seedConfig  = []byte("config")
	seedUser    = []byte("user")
	seedStake   = []byte("stake")
	seedVault   = []byte("vault")
	seedRewards = []byte("rewards")
)

// ErrInvalidProof is returned when a proof does not reproduce the expected signer.
var ErrInvalidProof = errors.New("invalid authority proof")

// Address derives the canonical address for the given seeds.
// The result is keccak256(rlp([program, seeds...]))[12:].
func Address(seeds ...[]byte) common.Address {
	items := make([][]byte, 0, len(seeds)+1)
	items = append(items, Program.Bytes())
	items = append(items, seeds...)

	data, _ := rlp.EncodeToBytes(items)
	return common.BytesToAddress(common.Keccak256(data).Bytes()[12:])
}

// Config returns the address of the configuration singleton.
func Config() common.Address {
	return Address(seedConfig)
}

// User returns the address of the user ledger.
func User(user common.Address) common.Address {
	return Address(seedUser, user.Bytes())
}

// Stake returns the address of the stake record for the (user, asset) pair.
func Stake(user common.Address, asset common.Bytes32) common.Address {
	return Address(seedStake, user.Bytes(), asset.Bytes())
}

// Vault returns the escrow vault holding the asset while it is staked.
func Vault(asset common.Bytes32) common.Address {
	return Address(seedVault, asset.Bytes())
}

// Rewards returns the reward token mint owned by the config.
func Rewards(config common.Address) common.Address {
	return Address(seedRewards, config.Bytes())
}

// Proof shows that Signer is the address derived from Seeds.
type Proof struct {
	Signer common.Address
	Seeds  [][]byte
}

// Authority returns the proof for the address derived from seeds.
func Authority(seeds ...[]byte) Proof {
	cpy := make([][]byte, len(seeds))
	for i, s := range seeds {
		cpy[i] = bytes.Clone(s)
	}
	return Proof{
		Signer: Address(cpy...),
		Seeds:  cpy,
	}
}

// ConfigAuthority returns the proof for the configuration identity.
func ConfigAuthority() Proof {
	return Authority(seedConfig)
}

// Verify checks the proof re-derives to its signer and the signer is the expected one.
func (p Proof) Verify(expected common.Address) error {
	if p.Signer.IsZero() || p.Signer != expected {
		return errors.WithMessagef(ErrInvalidProof, "signer %v, expected %v", p.Signer, expected)
	}
	if Address(p.Seeds...) != p.Signer {
		return errors.WithMessage(ErrInvalidProof, "seeds do not derive the signer")
	}
	return nil
}
