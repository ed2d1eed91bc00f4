// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/admin"
	"github.com/vechain/meter/block"
	"github.com/vechain/meter/health"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/metrics"
)

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(2)

	url, closeFunc, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer closeFunc()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)

	mf, ok := families["meter_metrics_httpserver_test_count"]
	require.True(t, ok)
	assert.Equal(t, float64(2), mf.GetMetric()[0].GetCounter().GetValue())
}

type staticChain struct {
	head *block.Header
	feed event.Feed
}

func (c *staticChain) BestBlock() *block.Header  { return c.head }
func (c *staticChain) SolidBlock() *block.Header { return c.head }
func (c *staticChain) SubscribeBestBlock(ch chan *block.Header) event.Subscription {
	return c.feed.Subscribe(ch)
}

type emptyPool struct{}

func (emptyPool) Len() int { return 0 }

func TestStartAdminServer(t *testing.T) {
	genesis := new(block.Builder).ParentID(meter.Bytes32{0xff, 0xff, 0xff, 0xff}).Timestamp(1000).Build()

	var level slog.LevelVar
	url, closeFunc, err := StartAdminServer("localhost:0", &level, &staticChain{head: genesis.Header()}, emptyPool{}, health.New(time.Minute))
	require.NoError(t, err)
	defer closeFunc()

	resp, err := http.Get(url + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status admin.ChainStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, uint32(0), status.Best.Number)
	assert.Equal(t, 0, status.Pending)
}

func TestListenFailure(t *testing.T) {
	_, _, err := StartMetricsServer("not-an-address")
	assert.Error(t, err)
}
