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
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/row"
)

func init() {
	RegisterSink("NET_CLIENT", func() SinkWriter { return &netClientSink{} })
}

// netClientSink dials out to a foreign TCP peer and writes one
// newline-delimited JSON object per row.
type netClientSink struct {
	addr          string
	writeTimeout  time.Duration
	connectTimeout time.Duration
	conn          net.Conn
}

func (s *netClientSink) Start(ctx context.Context, opts ident.Options, cfg Config) error {
	addr, err := opts.String("addr")
	if err != nil {
		return err
	}
	s.addr = addr
	s.writeTimeout = cfg.SinkWriteTimeout
	s.connectTimeout = cfg.SinkConnectTimeout
	return s.dial()
}

func (s *netClientSink) dial() error {
	conn, err := net.DialTimeout("tcp", s.addr, s.connectTimeout)
	if err != nil {
		return errs.Wrap(errs.ForeignIo, err, "net_client sink failed to connect to "+s.addr)
	}
	s.conn = conn
	return nil
}

func (s *netClientSink) WriteRow(ctx context.Context, r *row.Row) error {
	if s.conn == nil {
		if err := s.dial(); err != nil {
			return err
		}
	}
	payload := make(map[string]interface{}, len(r.Values()))
	for name, v := range r.Values() {
		if v.Null {
			payload[name] = nil
			continue
		}
		payload[name] = v.Raw()
	}
	line, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "failed to encode row as JSON")
	}
	line = append(line, '\n')

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := s.conn.Write(line); err != nil {
		_ = s.conn.Close()
		s.conn = nil
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return errs.Wrap(errs.ForeignSinkTimeout, err, "net_client sink write timed out")
		}
		return errs.Wrap(errs.ForeignIo, err, "net_client sink write failed")
	}
	return nil
}

func (s *netClientSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
