// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{BadRequest(errors.New("bad")), http.StatusBadRequest},
		{HTTPError(nil, http.StatusTeapot), http.StatusTeapot},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, tt.status, rec.Code)
	}
}

func TestFromRevert(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{reverts.ErrUnauthorized, http.StatusForbidden},
		{reverts.ErrNotStaked, http.StatusNotFound},
		{reverts.ErrNotInitialized, http.StatusNotFound},
		{reverts.ErrAlreadyStaked, http.StatusConflict},
		{reverts.ErrInvalidConfig, http.StatusBadRequest},
		{reverts.ErrLimitExceeded, http.StatusUnprocessableEntity},
		{reverts.ErrTimeNotElapsed, http.StatusUnprocessableEntity},
		{reverts.ErrNoRewardsToClaim, http.StatusUnprocessableEntity},
		{reverts.Wrap(reverts.CustodyFailure, errors.New("offline"), "deposit"), http.StatusBadGateway},
		{reverts.ErrIssuanceFailure, http.StatusBadGateway},
		{errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusOf(FromRevert(tt.err)), tt.err.Error())
	}
}

func TestReadBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}`))
	body, err := ReadBody(req)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	var v struct{ A int }
	require.NoError(t, ParseJSON(req.Body, &v))
	assert.Equal(t, 1, v.A)

	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}
