// Package xmlparse implements the forward-only cursor that response entities
// load themselves from.
//
// Every entity implements Parsable. Load is called with the cursor positioned
// on the entity's start tag and must leave it just past the matching end tag.
// Attributes outside an entity's recognized set fail with UnknownAttribute
// unless the reader was built with WithLenientAttributes.
package xmlparse

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Parsable is implemented by every response entity.
type Parsable interface {
	Load(r *Reader) error
}

// Reader is a cursor over an XML token stream. It is not safe for concurrent
// use and is not reentrant.
type Reader struct {
	dec     *xml.Decoder
	current xml.StartElement
	// pending is true while the cursor sits on a start tag whose content has
	// not been consumed yet.
	pending bool

	lenient bool
	logger  *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLenientAttributes makes unknown attributes a logged warning instead of
// a parse failure.
func WithLenientAttributes(logger *zap.Logger) Option {
	return func(r *Reader) {
		r.lenient = true
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader wraps src in a cursor.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		dec:    xml.NewDecoder(src),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MoveToContent advances to the next start tag, skipping the prolog,
// comments and whitespace.
func (r *Reader) MoveToContent() error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return syntaxError(io.ErrUnexpectedEOF)
			}
			return syntaxError(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			r.current = start.Copy()
			r.pending = true
			return nil
		}
	}
}

// Expect fails with UnexpectedElement unless the current element is name.
func (r *Reader) Expect(name string) error {
	if r.current.Name.Local != name {
		return UnexpectedElement(r.current.Name.Local, name)
	}
	return nil
}

// EachAttr calls fn for every attribute on the current element. Namespace
// declarations are not passed to fn. If fn returns an UnknownAttribute error
// and the reader is lenient, the attribute is logged and skipped.
func (r *Reader) EachAttr(fn func(name, value string) error) error {
	for _, a := range r.current.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		err := fn(a.Name.Local, a.Value)
		if err == nil {
			continue
		}
		var perr *ParseError
		if r.lenient && errors.As(err, &perr) && perr.Kind == KindUnknownAttribute {
			r.logger.Warn("ignoring unknown attribute",
				zap.String("element", r.current.Name.Local),
				zap.String("attribute", perr.Name),
				zap.String("value", perr.Value))
			continue
		}
		return err
	}
	return nil
}

// Children iterates the child elements of the current element. fn is called
// with the cursor on each child start tag; children fn leaves unconsumed are
// skipped. Children returns once the current element's end tag is consumed.
func (r *Reader) Children(fn func(name string) error) error {
	if !r.pending {
		return nil
	}
	r.pending = false

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return syntaxError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			r.current = t.Copy()
			r.pending = true
			if err := fn(t.Name.Local); err != nil {
				return err
			}
			if r.pending {
				if err := r.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ReadText consumes the current element and returns its text content.
func (r *Reader) ReadText() (string, error) {
	if !r.pending {
		return "", nil
	}
	r.pending = false

	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := r.dec.Token()
		if err != nil {
			return "", syntaxError(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

// Skip consumes the current element and everything beneath it.
func (r *Reader) Skip() error {
	if !r.pending {
		return nil
	}
	r.pending = false
	if err := r.dec.Skip(); err != nil {
		return syntaxError(err)
	}
	return nil
}
