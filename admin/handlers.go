// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/health"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// BlockSummary is a compact presentation of a block header.
type BlockSummary struct {
	ID        meter.Bytes32 `json:"id"`
	Number    uint32        `json:"number"`
	Timestamp uint64        `json:"timestamp"`
}

// ChainStatus is the response of GET /admin/status.
type ChainStatus struct {
	Best    BlockSummary `json:"best"`
	Solid   BlockSummary `json:"solid"`
	Pending int          `json:"pending"`
}

func newBlockSummary(h *block.Header) BlockSummary {
	return BlockSummary{h.ID(), h.Number(), h.Timestamp()}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{
		ErrorCode:    code,
		ErrorMessage: msg,
	})
}

func getLogLevelHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, logLevelResponse{
			CurrentLevel: log.LevelName(logLevel.Level()),
		})
	}
}

func postLogLevelHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		level, ok := log.ParseLevel(req.Level)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid verbosity level")
			return
		}
		logLevel.Set(level)
		writeJSON(w, http.StatusOK, logLevelResponse{
			CurrentLevel: log.LevelName(logLevel.Level()),
		})
	}
}

func statusHandler(chain Chain, pool Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := ChainStatus{
			Best:  newBlockSummary(chain.BestBlock()),
			Solid: newBlockSummary(chain.SolidBlock()),
		}
		if pool != nil {
			status.Pending = pool.Len()
		}
		writeJSON(w, http.StatusOK, &status)
	}
}

func healthHandler(h *health.Health) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := h.Status()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	}
}
