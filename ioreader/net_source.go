/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ioreader

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/row"
)

func init() {
	RegisterSource("NET_CLIENT", func() SourceReader { return &netClientSource{} })
	RegisterSource("NET_SERVER", func() SourceReader { return &netServerSource{} })
}

// decodeJSONRow implements spec.md §6's row wire format: one JSON object
// field per stream column, unknown fields ignored, missing nullable
// fields become null, missing non-null fields are a ForeignIo error. The
// ROWTIME column, when declared, must be an RFC 3339 string — enforced by
// row.New via Value.Time's cast-based coercion.
func decodeJSONRow(line []byte, shape *row.Shape, arrival time.Time) (*row.Row, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, errs.Wrap(errs.ForeignIo, err, "malformed row JSON")
	}
	values := make(map[string]row.Value, len(shape.Columns))
	for _, col := range shape.Columns {
		v, ok := raw[string(col.Name)]
		if !ok || v == nil {
			continue // row.New fills nullable gaps and errors on required gaps
		}
		values[string(col.Name)] = row.NewValue(col.Type, v)
	}
	return row.New(shape, values, arrival)
}

// netClientSource dials out to a foreign TCP peer and reads newline-
// delimited JSON rows, reconnecting with the engine's standard transient
// foreign-I/O backoff on disconnect (driven by the owning source task,
// not this type — Start/NextRow only ever try once per call).
type netClientSource struct {
	addr           string
	connectTimeout time.Duration
	readTimeout    time.Duration
	shape          *row.Shape
	conn           net.Conn
	scanner        *bufio.Scanner
}

func (s *netClientSource) Start(ctx context.Context, opts ident.Options, cfg Config, shape *row.Shape) error {
	addr, err := opts.String("addr")
	if err != nil {
		return err
	}
	s.addr = addr
	s.shape = shape
	s.connectTimeout = cfg.SourceConnectTimeout
	s.readTimeout = cfg.SourceReadTimeout
	return s.dial(s.connectTimeout)
}

func (s *netClientSource) dial(connectTimeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", s.addr, connectTimeout)
	if err != nil {
		return errs.Wrap(errs.ForeignIo, err, "net_client source failed to connect to "+s.addr)
	}
	s.conn = conn
	s.scanner = bufio.NewScanner(conn)
	return nil
}

func (s *netClientSource) NextRow(ctx context.Context) (*row.Row, error) {
	if s.conn == nil {
		if err := s.dial(s.connectTimeout); err != nil {
			return nil, err
		}
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	if !s.scanner.Scan() {
		err := s.scanner.Err()
		_ = s.conn.Close()
		s.conn = nil
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, errs.Wrap(errs.ForeignSourceTimeout, err, "net_client source read timed out")
		}
		if err == nil {
			return nil, errs.New(errs.ForeignIo, "net_client source peer closed the connection")
		}
		return nil, errs.Wrap(errs.ForeignIo, err, "net_client source read failed")
	}
	return decodeJSONRow(s.scanner.Bytes(), s.shape, time.Now())
}

func (s *netClientSource) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// netServerSource listens for a single inbound TCP connection and reads
// newline-delimited JSON rows from whichever peer connects first.
type netServerSource struct {
	addr        string
	readTimeout time.Duration
	shape       *row.Shape
	listener    net.Listener
	conn        net.Conn
	scanner     *bufio.Scanner
}

func (s *netServerSource) Start(ctx context.Context, opts ident.Options, cfg Config, shape *row.Shape) error {
	addr, err := opts.String("addr")
	if err != nil {
		return err
	}
	s.addr = addr
	s.shape = shape
	s.readTimeout = cfg.SourceReadTimeout
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errs.Wrap(errs.ForeignIo, err, "net_server source failed to listen on "+addr)
	}
	s.listener = ln
	return nil
}

func (s *netServerSource) acceptIfNeeded() error {
	if s.conn != nil {
		return nil
	}
	conn, err := s.listener.Accept()
	if err != nil {
		return errs.Wrap(errs.ForeignIo, err, "net_server source accept failed")
	}
	s.conn = conn
	s.scanner = bufio.NewScanner(conn)
	return nil
}

func (s *netServerSource) NextRow(ctx context.Context) (*row.Row, error) {
	if err := s.acceptIfNeeded(); err != nil {
		return nil, err
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	if !s.scanner.Scan() {
		err := s.scanner.Err()
		_ = s.conn.Close()
		s.conn = nil
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, errs.Wrap(errs.ForeignSourceTimeout, err, "net_server source read timed out")
		}
		if err == nil {
			return nil, errs.New(errs.ForeignIo, "net_server source peer closed the connection")
		}
		return nil, errs.Wrap(errs.ForeignIo, err, "net_server source read failed")
	}
	return decodeJSONRow(s.scanner.Bytes(), s.shape, time.Now())
}

func (s *netServerSource) Close() error {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
