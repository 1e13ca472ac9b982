// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/nftstake/api/utils"
	"github.com/vechain/nftstake/runtime"
)

// Status reports the host clock and program state.
type Status struct {
	Now          int64  `json:"now"`
	Initialized  bool   `json:"initialized"`
	RewardSupply string `json:"rewardSupply"`
}

type Node struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Node {
	return &Node{host}
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := n.host.Config()
	if err != nil {
		return err
	}
	supply, err := n.host.RewardSupply()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{
		Now:          n.host.Now(),
		Initialized:  cfg != nil,
		RewardSupply: supply.String(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
