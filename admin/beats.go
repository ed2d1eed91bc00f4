// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vechain/meter/block"
)

const (
	beatWriteWait  = 10 * time.Second
	beatPongWait   = 60 * time.Second
	beatPingPeriod = beatPongWait * 7 / 10
)

// beatsHandler streams a BlockSummary of every new head over a websocket.
// The current head is sent first.
func beatsHandler(chain Chain) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// upgrader has replied
			return
		}
		defer conn.Close()

		ch := make(chan *block.Header, 16)
		sub := chain.SubscribeBestBlock(ch)
		defer sub.Unsubscribe()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadDeadline(time.Now().Add(beatPongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(beatPongWait))
			})
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		send := func(h *block.Header) error {
			conn.SetWriteDeadline(time.Now().Add(beatWriteWait))
			return conn.WriteJSON(newBlockSummary(h))
		}
		if err := send(chain.BestBlock()); err != nil {
			return
		}

		ticker := time.NewTicker(beatPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-closed:
				return
			case <-sub.Err():
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(beatWriteWait))
				return
			case h := <-ch:
				if err := send(h); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(beatWriteWait)); err != nil {
					return
				}
			}
		}
	}
}
