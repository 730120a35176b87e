//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"net"
	"sync"

	"github.com/couchbase/querystats/util"
)

const (
	_LOCAL_HOST = "127.0.0.1"

	// connection registrations spread over shards so lookups on the
	// per statement path contend as little as possible
	_CLIENT_SHARDS = 16
)

// clientRegistry maps connection ids to their resolved client address.
// Resolution happens once at registration, not once per recorded
// statement.
type clientRegistry struct {
	shards [_CLIENT_SHARDS]struct {
		sync.RWMutex
		clients map[uint64]string
	}
}

func newClientRegistry() *clientRegistry {
	r := &clientRegistry{}
	for i := range r.shards {
		r.shards[i].clients = make(map[uint64]string)
	}
	return r
}

// register associates a connection with its remote address. addr may be a
// bare host or host:port; loopback and local sockets normalize to the
// canonical local address.
func (this *clientRegistry) register(connId uint64, addr string) {
	shard := &this.shards[util.HashUint64(connId, _CLIENT_SHARDS)]
	shard.Lock()
	shard.clients[connId] = resolveHost(addr)
	shard.Unlock()
}

func (this *clientRegistry) deregister(connId uint64) {
	shard := &this.shards[util.HashUint64(connId, _CLIENT_SHARDS)]
	shard.Lock()
	delete(shard.clients, connId)
	shard.Unlock()
}

func (this *clientRegistry) host(connId uint64) string {
	shard := &this.shards[util.HashUint64(connId, _CLIENT_SHARDS)]
	shard.RLock()
	h := shard.clients[connId]
	shard.RUnlock()
	return h
}

func resolveHost(addr string) string {
	if addr == "" {
		// local (unix domain) socket
		return _LOCAL_HOST
	}
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return _LOCAL_HOST
	}
	return host
}
