// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/health"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
)

type fakeChain struct {
	best, solid *block.Header
	feed        event.Feed
}

func (f *fakeChain) BestBlock() *block.Header  { return f.best }
func (f *fakeChain) SolidBlock() *block.Header { return f.solid }
func (f *fakeChain) SubscribeBestBlock(ch chan *block.Header) event.Subscription {
	return f.feed.Subscribe(ch)
}

type fakePool int

func (f fakePool) Len() int { return int(f) }

type fixture struct {
	level   slog.LevelVar
	genesis *block.Block
	next    *block.Block
	health  *health.Health
	chain   *fakeChain
	handler http.Handler
}

func newFixture() *fixture {
	f := &fixture{health: health.New(time.Minute)}
	info, _ := log.ParseLevel("info")
	f.level.Set(info)
	f.genesis = new(block.Builder).ParentID(meter.Bytes32{0xff, 0xff, 0xff, 0xff}).Timestamp(1000).Build()
	f.next = new(block.Builder).ParentID(f.genesis.ID()).Timestamp(1003).Build()
	f.chain = &fakeChain{best: f.next.Header(), solid: f.genesis.Header()}
	f.handler = HTTPHandler(&f.level, f.chain, fakePool(7), f.health)
	return f
}

func (f *fixture) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "info", resp.CurrentLevel)

	rr = f.do(http.MethodPost, "/admin/loglevel", []byte(`{"level":"debug"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "debug", resp.CurrentLevel)
	assert.Equal(t, "debug", log.LevelName(f.level.Level()))
}

func TestLogLevelInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"unknown level", `{"level":"invalid_body"}`, "Invalid verbosity level"},
		{"bad json", `{"level":`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			rr := f.do(http.MethodPost, "/admin/loglevel", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.msg, resp.ErrorMessage)
			assert.Equal(t, "info", log.LevelName(f.level.Level()))
		})
	}
}

func TestStatus(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/admin/status", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var status ChainStatus
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.Equal(t, f.next.ID(), status.Best.ID)
	assert.Equal(t, uint32(1), status.Best.Number)
	assert.Equal(t, f.genesis.ID(), status.Solid.ID)
	assert.Equal(t, 7, status.Pending)

	rr = f.do(http.MethodPost, "/admin/status", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "method not allowed", resp.ErrorMessage)

	rr = f.do(http.MethodPost, "/admin/beats", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = f.do(http.MethodGet, "/admin/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	f.health.NewBestBlock(f.next.Header())
	rr = f.do(http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var status health.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(1), status.BlockIngestion.Number)
}

func TestBeats(t *testing.T) {
	f := newFixture()
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/beats"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "websocket", resp.Header.Get("Upgrade"))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var beat BlockSummary
	require.NoError(t, conn.ReadJSON(&beat))
	assert.Equal(t, f.next.ID(), beat.ID)

	// the subscription is made before the first beat is written
	newHead := new(block.Builder).ParentID(f.next.ID()).Timestamp(1006).Build()
	f.chain.feed.Send(newHead.Header())

	require.NoError(t, conn.ReadJSON(&beat))
	assert.Equal(t, newHead.ID(), beat.ID)
	assert.Equal(t, uint32(2), beat.Number)
	assert.Equal(t, uint64(1006), beat.Timestamp)
}
