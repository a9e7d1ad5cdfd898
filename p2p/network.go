//
// Copyright (c) 2020 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"net"
)

// Listen opens a TCP listener at addr for the cross-process
// deployment of the protocol driver: the garbler listens, the
// evaluator dials.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Accept blocks for a single inbound connection on ln and wraps it
// in a Conn.
func Accept(ln net.Listener) (*Conn, error) {
	nc, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}

// Dial connects to addr and wraps the connection in a Conn.
func Dial(addr string) (*Conn, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}
