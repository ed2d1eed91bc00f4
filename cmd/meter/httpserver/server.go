// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver runs the operator facing HTTP servers of the node.
package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/meter/admin"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/health"
	"github.com/vechain/meter/metrics"
)

// serve runs handler on addr until the returned close func is called.
func serve(name, addr string, handler http.Handler) (net.Addr, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen %v API addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}

	var goes co.Goes
	goes.Go(func() { srv.Serve(listener) })
	return listener.Addr(), func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// StartMetricsServer exposes the prometheus metrics at /metrics.
func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	bound, closeFunc, err := serve("metrics", addr, handlers.CompressHandler(router))
	if err != nil {
		return "", nil, err
	}
	return "http://" + bound.String() + "/metrics", closeFunc, nil
}

// StartAdminServer exposes the admin endpoints under /admin.
func StartAdminServer(addr string, logLevel *slog.LevelVar, chain admin.Chain, pool admin.Pool, h *health.Health) (string, func(), error) {
	bound, closeFunc, err := serve("admin", addr, admin.HTTPHandler(logLevel, chain, pool, h))
	if err != nil {
		return "", nil, err
	}
	return "http://" + bound.String() + "/admin", closeFunc, nil
}
