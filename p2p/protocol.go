//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the framed, length-prefixed two-party
// transport used by the protocol package: a reliable, ordered byte
// stream shared by the circuit/table handoff and the oblivious
// transfer sub-protocol.
package p2p

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
)

// Conn is a framed connection over a reliable byte stream. Every
// value is prefixed with its length (or is fixed-width), so reads
// and writes never need an external delimiter.
type Conn struct {
	closer io.Closer
	io     *bufio.ReadWriter
	Stats  IOStats
}

// IOStats counts bytes sent and received over a Conn, for
// diagnostics and tests.
type IOStats struct {
	Sent  uint64
	Recvd uint64
}

// Sub returns the per-field difference between two stats snapshots.
func (stats IOStats) Sub(o IOStats) IOStats {
	return IOStats{
		Sent:  stats.Sent - o.Sent,
		Recvd: stats.Recvd - o.Recvd,
	}
}

// Sum returns the total bytes sent and received.
func (stats IOStats) Sum() uint64 {
	return stats.Sent + stats.Recvd
}

// NewConn wraps conn with buffered framing.
func NewConn(conn io.ReadWriter) *Conn {
	closer, _ := conn.(io.Closer)

	return &Conn{
		closer: closer,
		io: bufio.NewReadWriter(bufio.NewReader(conn),
			bufio.NewWriter(conn)),
	}
}

// Flush flushes any buffered output.
func (c *Conn) Flush() error {
	return c.io.Flush()
}

// Close flushes and closes the underlying connection.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// SendByte sends a single byte.
func (c *Conn) SendByte(val byte) error {
	err := c.io.WriteByte(val)
	if err != nil {
		return err
	}
	c.Stats.Sent++
	return nil
}

// ReceiveByte receives a single byte.
func (c *Conn) ReceiveByte() (byte, error) {
	val, err := c.io.ReadByte()
	if err != nil {
		return 0, err
	}
	c.Stats.Recvd++
	return val, nil
}

// SendUint16 sends an uint16 value.
func (c *Conn) SendUint16(val int) error {
	err := binary.Write(c.io, binary.BigEndian, uint16(val))
	if err != nil {
		return err
	}
	c.Stats.Sent += 2
	return nil
}

// ReceiveUint16 receives an uint16 value.
func (c *Conn) ReceiveUint16() (int, error) {
	var buf [2]byte

	_, err := io.ReadFull(c.io, buf[:])
	if err != nil {
		return 0, err
	}
	c.Stats.Recvd += 2

	return int(binary.BigEndian.Uint16(buf[:])), nil
}

// SendUint32 sends an uint32 value.
func (c *Conn) SendUint32(val int) error {
	err := binary.Write(c.io, binary.BigEndian, uint32(val))
	if err != nil {
		return err
	}
	c.Stats.Sent += 4
	return nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	var buf [4]byte

	_, err := io.ReadFull(c.io, buf[:])
	if err != nil {
		return 0, err
	}
	c.Stats.Recvd += 4

	return int(binary.BigEndian.Uint32(buf[:])), nil
}

// SendData sends length-prefixed binary data.
func (c *Conn) SendData(val []byte) error {
	err := c.SendUint32(len(val))
	if err != nil {
		return err
	}
	_, err = c.io.Write(val)
	if err != nil {
		return err
	}
	c.Stats.Sent += uint64(len(val))
	return nil
}

// ReceiveData receives length-prefixed binary data.
func (c *Conn) ReceiveData() ([]byte, error) {
	len, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}

	result := make([]byte, len)
	_, err = io.ReadFull(c.io, result)
	if err != nil {
		return nil, err
	}
	c.Stats.Recvd += uint64(len)

	return result, nil
}

// SendString sends a length-prefixed string.
func (c *Conn) SendString(val string) error {
	return c.SendData([]byte(val))
}

// ReceiveString receives a string sent with SendString.
func (c *Conn) ReceiveString() (string, error) {
	data, err := c.ReceiveData()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SendJSON marshals val and sends it as length-prefixed data. It is
// used by the protocol package to ship the circuit topology and
// garbled tables as a single framed message (spec "Garbler→Evaluator
// wire format").
func (c *Conn) SendJSON(val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.SendData(data)
}

// ReceiveJSON receives a message sent with SendJSON and unmarshals
// it into val.
func (c *Conn) ReceiveJSON(val interface{}) error {
	data, err := c.ReceiveData()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, val)
}
