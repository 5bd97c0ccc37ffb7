package pegparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	HeadCommentKey   = "headComment"
	ProjectKey       = "project"
	ObjectsKey       = "objects"
	IsaKey           = "isa"
	CommentKeySuffix = "_comment"
)

// ParseError points at the offending position of the descriptor text.
type ParseError struct {
	Filename string
	Line     int
	Col      int
	Msg      string
}

func (e *ParseError) Error() string {
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Col, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokEquals
	tokSemicolon
	tokComma
	tokString
	tokComment
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEquals:
		return "'='"
	case tokSemicolon:
		return "';'"
	case tokComma:
		return "','"
	case tokString:
		return "string"
	case tokComment:
		return "comment"
	}
	return "unknown"
}

var punctuation = map[byte]tokenKind{
	'{': tokLBrace,
	'}': tokRBrace,
	'(': tokLParen,
	')': tokRParen,
	'=': tokEquals,
	';': tokSemicolon,
	',': tokComma,
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	filename string
	src      []byte
	pos      int
	pending  *token
}

type Option func(p *parser)

// ParseReader parses a project descriptor into an Object holding the
// headComment and the project dictionary. Records under "objects" are
// grouped into sections keyed by their isa, in order of first appearance.
// Scalars keep their raw token text, quotes included.
func ParseReader(filename string, r io.Reader, opts ...Option) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	return Parse(filename, data, opts...)
}

func Parse(filename string, data []byte, opts ...Option) (result interface{}, err error) {
	p := &parser{filename: filename, src: data}
	for _, opt := range opts {
		opt(p)
	}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			err = perr
		}
	}()
	return p.parseDocument(), nil
}

func (p *parser) fail(pos int, format string, args ...interface{}) {
	if pos > len(p.src) {
		pos = len(p.src)
	}
	line := bytes.Count(p.src[:pos], []byte("\n")) + 1
	col := pos - bytes.LastIndexByte(p.src[:pos], '\n')
	panic(&ParseError{
		Filename: p.filename,
		Line:     line,
		Col:      col,
		Msg:      fmt.Sprintf(format, args...),
	})
}

func (p *parser) parseDocument() Object {
	doc := NewObject()
	if head := p.headComment(); head != "" {
		doc.Set(HeadCommentKey, head)
	}

	t := p.nextSignificant()
	if t.kind != tokLBrace {
		p.fail(t.pos, "expected '{' at start of project, found %s", t.kind)
	}
	doc.Set(ProjectKey, p.parseDict(true, false))

	if t := p.nextSignificant(); t.kind != tokEOF {
		p.fail(t.pos, "unexpected %s after end of project", t.kind)
	}
	return doc
}

func (p *parser) headComment() string {
	rest := bytes.TrimLeft(p.src, " \t\r\n")
	if !bytes.HasPrefix(rest, []byte("//")) {
		return ""
	}
	line := rest[2:]
	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return strings.TrimSpace(string(line))
}

// parseDict reads entries up to the closing brace; the opening brace has
// been consumed. Comments in key position are dropped, except that a
// "Begin X section" marker in a sectioned dictionary opens section X even
// when no record follows.
func (p *parser) parseDict(root, sectioned bool) Object {
	obj := NewObject()
	for {
		t := p.next()
		if t.kind == tokComment {
			if isa, ok := sectionMarker(t.text); ok && sectioned && !obj.Has(isa) {
				obj.Set(isa, NewObject())
			}
			continue
		}
		switch t.kind {
		case tokRBrace:
			return obj
		case tokString:
		default:
			p.fail(t.pos, "expected key or '}', found %s", t.kind)
		}
		key := t.text

		keyComment := ""
		t = p.next()
		if t.kind == tokComment {
			keyComment = t.text
			t = p.nextSignificant()
		}
		if t.kind != tokEquals {
			p.fail(t.pos, "expected '=' after key %s, found %s", key, t.kind)
		}

		val, valComment := p.parseValue(root && key == ObjectsKey)

		t = p.nextSignificant()
		if t.kind != tokSemicolon {
			p.fail(t.pos, "expected ';' after value of %s, found %s", key, t.kind)
		}

		if sectioned {
			p.addToSection(obj, key, keyComment, val, t.pos)
			continue
		}
		obj.Set(key, val)
		if valComment != "" {
			obj.Set(key+CommentKeySuffix, valComment)
		} else if keyComment != "" {
			obj.Set(key+CommentKeySuffix, keyComment)
		}
	}
}

func sectionMarker(comment string) (string, bool) {
	fields := strings.Fields(comment)
	if len(fields) != 3 || fields[0] != "Begin" || fields[2] != "section" {
		return "", false
	}
	return fields[1], true
}

func (p *parser) addToSection(objects Object, key, comment string, val interface{}, pos int) {
	record, ok := val.(Object)
	if !ok {
		p.fail(pos, "object %s is not a dictionary", key)
	}
	isa := record.GetString(IsaKey)
	if isa == "" {
		p.fail(pos, "object %s has no isa", key)
	}
	section := objects.GetObject(isa)
	if !objects.Has(isa) {
		objects.Set(isa, section)
	}
	section.Set(key, record)
	if comment != "" {
		section.Set(key+CommentKeySuffix, comment)
	}
}

func (p *parser) parseValue(sectioned bool) (interface{}, string) {
	var val interface{}
	t := p.nextSignificant()
	switch t.kind {
	case tokLBrace:
		val = p.parseDict(false, sectioned)
	case tokLParen:
		val = p.parseArray()
	case tokString:
		val = t.text
	default:
		p.fail(t.pos, "expected value, found %s", t.kind)
	}

	t = p.next()
	if t.kind == tokComment {
		return val, t.text
	}
	p.unread(t)
	return val, ""
}

func (p *parser) parseArray() []interface{} {
	list := []interface{}{}
	for {
		t := p.nextSignificant()
		if t.kind == tokRParen {
			return list
		}
		p.unread(t)

		val, comment := p.parseValue(false)
		if str, ok := val.(string); ok && comment != "" {
			val = NewObjectWithData([]ObjectItem{
				NewObjectItem("value", str),
				NewObjectItem("comment", comment),
			})
		}
		list = append(list, val)

		t = p.nextSignificant()
		switch t.kind {
		case tokRParen:
			return list
		case tokComma:
		default:
			p.fail(t.pos, "expected ',' or ')' in list, found %s", t.kind)
		}
	}
}

func (p *parser) unread(t token) {
	p.pending = &t
}

// nextSignificant skips comments.
func (p *parser) nextSignificant() token {
	for {
		t := p.next()
		if t.kind != tokComment {
			return t
		}
	}
}

func (p *parser) next() token {
	if p.pending != nil {
		t := *p.pending
		p.pending = nil
		return t
	}
	return p.scan()
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '/' && p.peekByte(1) == '/':
			end := bytes.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		default:
			return
		}
	}
}

func (p *parser) peekByte(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *parser) scan() token {
	p.skipSpace()
	start := p.pos
	if start >= len(p.src) {
		return token{kind: tokEOF, pos: start}
	}

	c := p.src[start]
	if kind, ok := punctuation[c]; ok {
		p.pos++
		return token{kind: kind, text: string(c), pos: start}
	}

	switch {
	case c == '"':
		return p.scanQuoted()
	case c == '/' && p.peekByte(1) == '*':
		end := bytes.Index(p.src[start+2:], []byte("*/"))
		if end < 0 {
			p.fail(start, "unterminated comment")
		}
		text := p.src[start+2 : start+2+end]
		p.pos = start + 2 + end + 2
		return token{kind: tokComment, text: strings.TrimSpace(string(text)), pos: start}
	}

	for p.pos < len(p.src) && isWordByte(p.src[p.pos]) {
		if p.src[p.pos] == '/' && (p.peekByte(1) == '*' || p.peekByte(1) == '/') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.fail(start, "unexpected character %q", c)
	}
	return token{kind: tokString, text: string(p.src[start:p.pos]), pos: start}
}

func (p *parser) scanQuoted() token {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			return token{kind: tokString, text: string(p.src[start:p.pos]), pos: start}
		}
		p.pos++
	}
	p.fail(start, "unterminated quoted string")
	return token{}
}

func isWordByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '(', ')', '=', ';', ',', '"':
		return false
	}
	return true
}
