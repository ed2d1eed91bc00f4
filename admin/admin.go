// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the node's operator endpoints.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/health"
)

// Chain reports the heads of the local chain.
type Chain interface {
	BestBlock() *block.Header
	SolidBlock() *block.Header
	SubscribeBestBlock(ch chan *block.Header) event.Subscription
}

// Pool reports the pending tx count.
type Pool interface {
	Len() int
}

// HTTPHandler routes
//
//	GET|POST /admin/loglevel
//	GET      /admin/status
//	GET      /admin/health
//	GET      /admin/beats (websocket)
func HTTPHandler(logLevel *slog.LevelVar, chain Chain, pool Pool, h *health.Health) http.Handler {
	compressed := func(h http.HandlerFunc) http.Handler {
		return handlers.CompressHandler(h)
	}

	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").Methods(http.MethodGet).Handler(compressed(getLogLevelHandler(logLevel)))
	sub.Path("/loglevel").Methods(http.MethodPost).Handler(compressed(postLogLevelHandler(logLevel)))
	sub.Path("/status").Methods(http.MethodGet).Handler(compressed(statusHandler(chain, pool)))
	sub.Path("/health").Methods(http.MethodGet).Handler(compressed(healthHandler(h)))
	// websocket connections must bypass the compressor
	sub.Path("/beats").Methods(http.MethodGet).HandlerFunc(beatsHandler(chain))

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return router
}
