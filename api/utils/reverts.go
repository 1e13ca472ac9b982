// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"

	"github.com/vechain/nftstake/reverts"
)

// FromRevert maps a rejected staking operation to its http error.
// Errors other than reverts are returned as is.
func FromRevert(err error) error {
	if !reverts.IsRevertErr(err) {
		return err
	}
	switch reverts.KindOf(err) {
	case reverts.Unauthorized:
		return HTTPError(err, http.StatusForbidden)
	case reverts.NotStaked, reverts.NotInitialized:
		return HTTPError(err, http.StatusNotFound)
	case reverts.AlreadyStaked, reverts.AlreadyInitialized:
		return HTTPError(err, http.StatusConflict)
	case reverts.InvalidConfig:
		return HTTPError(err, http.StatusBadRequest)
	case reverts.CustodyFailure, reverts.IssuanceFailure:
		return HTTPError(err, http.StatusBadGateway)
	default:
		return HTTPError(err, http.StatusUnprocessableEntity)
	}
}
