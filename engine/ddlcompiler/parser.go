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

package ddlcompiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/springsql/springsql/aggregator"
)

// parser is a recursive-descent parser over the token stream, mirroring
// the curToken/peekToken shape of the teacher module's rsql parser.
type parser struct {
	l         *lexer
	curToken  Token
	peekToken Token
	err       error
}

func newParser(input string) *parser {
	p := &parser{l: newLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

func (p *parser) expect(t TokenType) Token {
	tok := p.curToken
	if tok.Type != t {
		p.fail("expected %s, got %s %q", t, tok.Type, tok.Literal)
		return tok
	}
	p.nextToken()
	return tok
}

// parseStatement dispatches on the leading keyword and returns one of
// *createStreamStmt, *createPumpStmt, *createSourceReaderStmt,
// *createSinkWriterStmt, *alterPumpStmt.
func (p *parser) parseStatement() (interface{}, error) {
	switch p.curToken.Type {
	case CREATE:
		p.nextToken()
		return p.parseCreate()
	case ALTER:
		p.nextToken()
		return p.parseAlter()
	default:
		return nil, fmt.Errorf("unrecognized statement starting with %q", p.curToken.Literal)
	}
}

func (p *parser) parseCreate() (interface{}, error) {
	switch p.curToken.Type {
	case SOURCE:
		p.nextToken()
		switch p.curToken.Type {
		case STREAM:
			p.nextToken()
			return p.parseCreateStream(sourceStream)
		case READER:
			p.nextToken()
			return p.parseCreateSourceReader()
		default:
			return nil, fmt.Errorf("expected STREAM or READER after CREATE SOURCE, got %q", p.curToken.Literal)
		}
	case SINK:
		p.nextToken()
		switch p.curToken.Type {
		case STREAM:
			p.nextToken()
			return p.parseCreateStream(sinkStream)
		case WRITER:
			p.nextToken()
			return p.parseCreateSinkWriter()
		default:
			return nil, fmt.Errorf("expected STREAM or WRITER after CREATE SINK, got %q", p.curToken.Literal)
		}
	case STREAM:
		p.nextToken()
		return p.parseCreateStream(plainStream)
	case PUMP:
		p.nextToken()
		return p.parseCreatePump()
	default:
		return nil, fmt.Errorf("expected SOURCE, SINK, STREAM or PUMP after CREATE, got %q", p.curToken.Literal)
	}
}

func (p *parser) parseAlter() (interface{}, error) {
	if p.curToken.Type != PUMP {
		return nil, fmt.Errorf("expected PUMP after ALTER, got %q", p.curToken.Literal)
	}
	p.nextToken()
	name := p.expect(IDENT).Literal
	start := false
	switch p.curToken.Type {
	case START:
		start = true
	case STOP:
		start = false
	default:
		return nil, fmt.Errorf("expected START or STOP, got %q", p.curToken.Literal)
	}
	p.nextToken()
	if p.err != nil {
		return nil, p.err
	}
	return &alterPumpStmt{name: name, start: start}, nil
}

// parseCreateStream parses `<name> (<col> <type> [NOT NULL][, ...]) [ROWTIME <col>]`.
func (p *parser) parseCreateStream(kind streamKind) (interface{}, error) {
	stmt := &createStreamStmt{kind: kind}
	stmt.name = p.expect(IDENT).Literal
	p.expect(LPAREN)
	for p.curToken.Type != RPAREN && p.curToken.Type != EOF {
		col := columnDef{nullable: true}
		col.name = p.expect(IDENT).Literal
		col.typeName = strings.ToUpper(p.curToken.Literal)
		p.nextToken()
		if p.curToken.Type == NOT {
			p.nextToken()
			p.expect(NULL)
			col.nullable = false
		}
		stmt.columns = append(stmt.columns, col)
		if p.curToken.Type == COMMA {
			p.nextToken()
		}
	}
	p.expect(RPAREN)
	if p.curToken.Type == ROWTIME {
		p.nextToken()
		stmt.rowtimeCol = p.expect(IDENT).Literal
	}
	if p.curToken.Type == SEMICOLON {
		p.nextToken()
	}
	if p.err != nil {
		return nil, p.err
	}
	return stmt, nil
}

// parseCreateSourceReader parses
// `<name> FOR <stream> TYPE <type> OPTIONS (<k> = '<v>', ...)`.
func (p *parser) parseCreateSourceReader() (interface{}, error) {
	stmt := &createSourceReaderStmt{options: map[string]string{}}
	stmt.name = p.expect(IDENT).Literal
	p.expect(FOR)
	stmt.stream = p.expect(IDENT).Literal
	p.expect(TYPE)
	stmt.typeName = strings.ToUpper(p.curToken.Literal)
	p.nextToken()
	p.parseOptions(stmt.options)
	if p.err != nil {
		return nil, p.err
	}
	return stmt, nil
}

// parseCreateSinkWriter mirrors parseCreateSourceReader for sink writers.
func (p *parser) parseCreateSinkWriter() (interface{}, error) {
	stmt := &createSinkWriterStmt{options: map[string]string{}}
	stmt.name = p.expect(IDENT).Literal
	p.expect(FOR)
	stmt.stream = p.expect(IDENT).Literal
	p.expect(TYPE)
	stmt.typeName = strings.ToUpper(p.curToken.Literal)
	p.nextToken()
	p.parseOptions(stmt.options)
	if p.err != nil {
		return nil, p.err
	}
	return stmt, nil
}

func (p *parser) parseOptions(into map[string]string) {
	if p.curToken.Type != OPTIONS {
		return
	}
	p.nextToken()
	p.expect(LPAREN)
	for p.curToken.Type != RPAREN && p.curToken.Type != EOF {
		key := p.expect(IDENT).Literal
		p.expect(ASSIGN)
		val := p.expect(STRING).Literal
		into[key] = val
		if p.curToken.Type == COMMA {
			p.nextToken()
		}
	}
	p.expect(RPAREN)
	if p.curToken.Type == SEMICOLON {
		p.nextToken()
	}
}

// parseCreatePump parses:
//
//	<name> AS INSERT INTO <downstream> SELECT <items> FROM <upstream>
//	[GROUP BY <field> (TUMBLING(<len_ms>) | SLIDING(<len_ms>, <period_ms>))]
func (p *parser) parseCreatePump() (interface{}, error) {
	stmt := &createPumpStmt{}
	stmt.name = p.expect(IDENT).Literal
	p.expect(AS)
	p.expect(INSERT)
	p.expect(INTO)
	stmt.downstream = p.expect(IDENT).Literal
	p.expect(SELECT)

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		stmt.items = append(stmt.items, item)
		if p.curToken.Type == COMMA {
			p.nextToken()
			continue
		}
		break
	}

	p.expect(FROM)
	stmt.upstream = p.expect(IDENT).Literal

	if p.curToken.Type == GROUP {
		p.nextToken()
		p.expect(BY)
		stmt.groupBy = p.expect(IDENT).Literal
		win, err := p.parseWindow()
		if err != nil {
			return nil, err
		}
		stmt.window = win
	}

	if p.curToken.Type == SEMICOLON {
		p.nextToken()
	}
	if p.err != nil {
		return nil, p.err
	}
	return stmt, nil
}

func (p *parser) parseWindow() (*windowSpec, error) {
	switch p.curToken.Type {
	case TUMBLING:
		p.nextToken()
		p.expect(LPAREN)
		length := p.expect(NUMBER).Literal
		p.expect(RPAREN)
		n, err := strconv.ParseInt(length, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TUMBLING length %q: %w", length, err)
		}
		return &windowSpec{sliding: false, lengthMillis: n, periodMillis: n}, nil
	case SLIDING:
		p.nextToken()
		p.expect(LPAREN)
		length := p.expect(NUMBER).Literal
		p.expect(COMMA)
		period := p.expect(NUMBER).Literal
		p.expect(RPAREN)
		ln, err := strconv.ParseInt(length, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SLIDING length %q: %w", length, err)
		}
		pn, err := strconv.ParseInt(period, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SLIDING period %q: %w", period, err)
		}
		return &windowSpec{sliding: true, lengthMillis: ln, periodMillis: pn}, nil
	default:
		return nil, fmt.Errorf("expected TUMBLING or SLIDING after GROUP BY, got %q", p.curToken.Literal)
	}
}

// parseSelectItem parses one comma-separated SELECT list entry: a plain
// column, an aggregate call, or a value expression, each optionally
// aliased with AS.
func (p *parser) parseSelectItem() (selectItem, error) {
	if p.curToken.Type == IDENT && isAggregateFunc(p.curToken.Literal) && p.peekToken.Type == LPAREN {
		fn := aggregator.AggregateType(strings.ToLower(p.curToken.Literal))
		p.nextToken()
		p.expect(LPAREN)
		var field string
		if p.curToken.Type == ASTERISK {
			field = "*"
			p.nextToken()
		} else {
			field = p.expect(IDENT).Literal
		}
		p.expect(RPAREN)
		alias := field
		if p.curToken.Type == AS {
			p.nextToken()
			alias = p.expect(IDENT).Literal
		}
		return selectItem{kind: itemAggregate, aggFunc: fn, aggField: field, alias: alias}, nil
	}

	var sb strings.Builder
	isExpr := false
	first := true
	for p.curToken.Type != AS && p.curToken.Type != COMMA && p.curToken.Type != FROM && p.curToken.Type != EOF && p.curToken.Type != SEMICOLON {
		if !first {
			sb.WriteByte(' ')
			isExpr = true
		}
		sb.WriteString(p.curToken.Literal)
		first = false
		p.nextToken()
	}
	text := sb.String()
	if text == "" {
		return selectItem{}, fmt.Errorf("empty SELECT item")
	}

	alias := text
	if p.curToken.Type == AS {
		p.nextToken()
		alias = p.expect(IDENT).Literal
	}

	if !isExpr {
		return selectItem{kind: itemColumn, column: text, alias: alias}, nil
	}
	return selectItem{kind: itemExpr, expr: text, alias: alias}, nil
}

func isAggregateFunc(ident string) bool {
	switch aggregator.AggregateType(strings.ToLower(ident)) {
	case aggregator.Sum, aggregator.Count, aggregator.Avg, aggregator.Max, aggregator.Min:
		return true
	default:
		return false
	}
}
