// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/api/utils"
	"github.com/vechain/nftstake/auth"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/runtime"
)

type Stakes struct {
	host     *runtime.Host
	authn    auth.Authenticator
	soloMode bool
}

func New(host *runtime.Host, authn auth.Authenticator, soloMode bool) *Stakes {
	return &Stakes{host, authn, soloMode}
}

// caller authenticates the request and decodes its body into req.
func (s *Stakes) caller(r *http.Request, req any) (common.Address, error) {
	body, err := utils.ReadBody(r)
	if err != nil {
		return common.Address{}, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := s.authn.Authenticate(r, body)
	if err != nil {
		return common.Address{}, utils.Unauthorized(err)
	}
	if req != nil {
		if err := utils.ParseJSON(r.Body, req); err != nil {
			return common.Address{}, utils.BadRequest(errors.WithMessage(err, "body"))
		}
	}
	return caller, nil
}

func (s *Stakes) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := s.host.Config()
	if err != nil {
		return err
	}
	if cfg == nil {
		return utils.NotFound(errors.New("not initialized"))
	}
	return utils.WriteJSON(w, convertConfig(cfg))
}

func (s *Stakes) handleInitialize(w http.ResponseWriter, r *http.Request) error {
	var req InitializeRequest
	caller, err := s.caller(r, &req)
	if err != nil {
		return err
	}
	cfg, err := s.host.Initialize(r.Context(), caller, req.PointsPerStake, req.MaxStake, req.FreezePeriod)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, convertConfig(cfg))
}

func (s *Stakes) handleInitUser(w http.ResponseWriter, r *http.Request) error {
	caller, err := s.caller(r, nil)
	if err != nil {
		return err
	}
	ledger, err := s.host.InitUser(r.Context(), caller)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, convertLedger(ledger))
}

func (s *Stakes) handleGetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := common.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	ledger, err := s.host.Ledger(*user)
	if err != nil {
		return utils.FromRevert(err)
	}
	if ledger == nil {
		return utils.NotFound(errors.New("user not found"))
	}
	escrowed, err := s.host.Escrowed(*user)
	if err != nil {
		return err
	}
	bal, err := s.host.RewardBalance(*user)
	if err != nil {
		return err
	}
	res := convertLedger(ledger)
	res.Escrowed = escrowed
	res.RewardBalance = bal.String()
	return utils.WriteJSON(w, res)
}

func (s *Stakes) handleGetRecord(w http.ResponseWriter, r *http.Request) error {
	user, err := common.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	asset, err := common.ParseBytes32(mux.Vars(r)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	cfg, err := s.host.Config()
	if err != nil {
		return err
	}
	if cfg == nil {
		return utils.NotFound(errors.New("not initialized"))
	}
	record, err := s.host.Record(*user, asset)
	if err != nil {
		return utils.FromRevert(err)
	}
	if record == nil {
		return utils.NotFound(errors.New("record not found"))
	}
	return utils.WriteJSON(w, convertRecord(record, cfg.FreezePeriod))
}

func (s *Stakes) handleStake(w http.ResponseWriter, r *http.Request) error {
	var req AssetRequest
	caller, err := s.caller(r, &req)
	if err != nil {
		return err
	}
	if err := s.host.Stake(r.Context(), caller, req.Asset); err != nil {
		return utils.FromRevert(err)
	}
	return s.writeRecord(w, caller, req.Asset)
}

func (s *Stakes) writeRecord(w http.ResponseWriter, user common.Address, asset common.Bytes32) error {
	cfg, err := s.host.Config()
	if err != nil {
		return err
	}
	record, err := s.host.Record(user, asset)
	if err != nil {
		return err
	}
	if record == nil {
		return utils.NotFound(errors.New("record not found"))
	}
	return utils.WriteJSON(w, convertRecord(record, cfg.FreezePeriod))
}

func (s *Stakes) handleUnstake(w http.ResponseWriter, r *http.Request) error {
	var req AssetRequest
	caller, err := s.caller(r, &req)
	if err != nil {
		return err
	}
	if err := s.host.Unstake(r.Context(), caller, req.Asset); err != nil {
		return utils.FromRevert(err)
	}
	ledger, err := s.host.Ledger(caller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertLedger(ledger))
}

func (s *Stakes) handleClaim(w http.ResponseWriter, r *http.Request) error {
	caller, err := s.caller(r, nil)
	if err != nil {
		return err
	}
	points, err := s.host.Claim(r.Context(), caller)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, &ClaimResult{Points: points})
}

func (s *Stakes) handleGetAsset(w http.ResponseWriter, r *http.Request) error {
	asset, err := common.ParseBytes32(mux.Vars(r)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	holder, err := s.host.HolderOf(asset)
	if err != nil {
		return err
	}
	if holder.IsZero() {
		return utils.NotFound(errors.New("asset not found"))
	}
	return utils.WriteJSON(w, &Asset{Asset: asset, Holder: holder})
}

func (s *Stakes) handleRegisterAsset(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if _, err := s.caller(r, &req); err != nil {
		return err
	}
	if err := s.host.RegisterAsset(r.Context(), req.Asset, req.Owner); err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, &Asset{Asset: req.Asset, Holder: req.Owner})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").Methods(http.MethodGet).Name("GET /stakes/config").HandlerFunc(utils.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/initialize").Methods(http.MethodPost).Name("POST /stakes/initialize").HandlerFunc(utils.WrapHandlerFunc(s.handleInitialize))
	sub.Path("/users").Methods(http.MethodPost).Name("POST /stakes/users").HandlerFunc(utils.WrapHandlerFunc(s.handleInitUser))
	sub.Path("/users/{address}").Methods(http.MethodGet).Name("GET /stakes/users/{address}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetUser))
	sub.Path("/users/{address}/records/{asset}").Methods(http.MethodGet).Name("GET /stakes/users/{address}/records/{asset}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetRecord))
	sub.Path("/stake").Methods(http.MethodPost).Name("POST /stakes/stake").HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/unstake").Methods(http.MethodPost).Name("POST /stakes/unstake").HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/claim").Methods(http.MethodPost).Name("POST /stakes/claim").HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/assets/{asset}").Methods(http.MethodGet).Name("GET /stakes/assets/{asset}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetAsset))
	if s.soloMode {
		sub.Path("/assets").Methods(http.MethodPost).Name("POST /stakes/assets").HandlerFunc(utils.WrapHandlerFunc(s.handleRegisterAsset))
	}
}
