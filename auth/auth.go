// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth resolves the identity of API callers.
package auth

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/cache"
	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
)

const (
	HeaderCaller    = "X-Caller"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp" // unix seconds, part of the signed digest

	// MaxClockSkew bounds the distance between a signed timestamp and the server clock.
	MaxClockSkew = 5 * time.Minute

	seenDigests = 1 << 16
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator returns the caller of a request with the given body.
type Authenticator interface {
	Authenticate(r *http.Request, body []byte) (common.Address, error)
}

// HeaderAuthenticator trusts the caller address in the X-Caller header.
// Only meant for solo mode.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request, _ []byte) (common.Address, error) {
	v := r.Header.Get(HeaderCaller)
	if v == "" {
		return common.Address{}, ErrUnauthenticated
	}
	addr, err := common.ParseAddress(v)
	if err != nil {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "caller: "+err.Error())
	}
	if addr.IsZero() {
		return common.Address{}, ErrUnauthenticated
	}
	return *addr, nil
}

// SignatureAuthenticator recovers the caller from a compact secp256k1
// signature over the request digest. A digest is accepted once.
type SignatureAuthenticator struct {
	clock clock.Clock
	seen  *cache.LRU[common.Bytes32, struct{}]
}

// NewSignatureAuthenticator creates an authenticator checking timestamps against clk.
func NewSignatureAuthenticator(clk clock.Clock) *SignatureAuthenticator {
	seen, err := cache.NewLRU[common.Bytes32, struct{}](seenDigests)
	if err != nil {
		panic(err) // positive size
	}
	return &SignatureAuthenticator{clock: clk, seen: seen}
}

func (a *SignatureAuthenticator) Authenticate(r *http.Request, body []byte) (common.Address, error) {
	v := strings.TrimPrefix(r.Header.Get(HeaderSignature), "0x")
	if v == "" {
		return common.Address{}, ErrUnauthenticated
	}
	sig, err := hex.DecodeString(v)
	if err != nil {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "signature: "+err.Error())
	}
	ts, err := strconv.ParseInt(r.Header.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "timestamp: "+err.Error())
	}
	if skew := a.clock.Now().Sub(time.Unix(ts, 0)); skew > MaxClockSkew || skew < -MaxClockSkew {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "timestamp out of range")
	}

	digest := Digest(r.Method, r.URL.Path, ts, body)
	pub, _, err := ecdsa.RecoverCompact(sig, digest[:])
	if err != nil {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "signature: "+err.Error())
	}
	// TODO: persist seen digests, a restart within MaxClockSkew forgets them
	if a.seen.ContainsOrAdd(digest, struct{}{}) {
		return common.Address{}, errors.WithMessage(ErrUnauthenticated, "replayed request")
	}
	return PubkeyToAddress(pub), nil
}

// Digest is the hash signed by callers: keccak256 of the rlp list
// [method, path, timestamp, body].
func Digest(method, path string, timestamp int64, body []byte) common.Bytes32 {
	data, err := rlp.EncodeToBytes([]any{method, path, uint64(timestamp), body})
	if err != nil {
		panic(err) // strings, uints and bytes always encode
	}
	return common.Keccak256(data)
}

// PubkeyToAddress derives the account address of pub.
func PubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	h := common.Keccak256(pub.SerializeUncompressed()[1:])
	return common.BytesToAddress(h[12:])
}

// Sign signs the request digest with key, in the X-Signature format.
func Sign(key *secp256k1.PrivateKey, method, path string, timestamp int64, body []byte) string {
	digest := Digest(method, path, timestamp, body)
	return "0x" + hex.EncodeToString(ecdsa.SignCompact(key, digest[:], false))
}

// SignRequest sets the X-Timestamp and X-Signature headers of r.
func SignRequest(key *secp256k1.PrivateKey, r *http.Request, body []byte, now time.Time) {
	ts := now.Unix()
	r.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	r.Header.Set(HeaderSignature, Sign(key, r.Method, r.URL.Path, ts, body))
}
