package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Payload is the optional structured attachment of a log entry.
// The zero value is an absent payload.
type Payload struct {
	raw json.RawMessage
}

// NewPayload wraps raw JSON read from the store. NULL, empty input, JSON null
// and empty objects/arrays all count as absent.
func NewPayload(raw []byte) Payload {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]":
		return Payload{}
	}
	return Payload{raw: append(json.RawMessage(nil), trimmed...)}
}

// Present reports whether the entry carried a payload.
func (p Payload) Present() bool {
	return len(p.raw) > 0
}

// Text renders the payload as compact JSON with a space after every ':' and
// ',' ({"orderId": "123"}). Member order is preserved from the store.
func (p Payload) Text() (string, error) {
	if !p.Present() {
		return "", nil
	}
	return spacedJSON(p.raw)
}

type jsonFrame struct {
	object bool
	n      int
}

func spacedJSON(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("invalid payload json: not valid UTF-8")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var b strings.Builder
	var stack []jsonFrame
	done := false

	separate := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		switch {
		case top.object && top.n%2 == 1:
			b.WriteString(": ")
		case top.n > 0:
			b.WriteString(", ")
		}
		top.n++
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("invalid payload json: %w", err)
		}
		if done {
			return "", errors.New("invalid payload json: more than one top-level value")
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				separate()
				stack = append(stack, jsonFrame{object: v == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
			b.WriteRune(rune(v))
		case string:
			separate()
			if err := writeJSONString(&b, v); err != nil {
				return "", err
			}
		case json.Number:
			separate()
			b.WriteString(v.String())
		case bool:
			separate()
			fmt.Fprintf(&b, "%t", v)
		case nil:
			separate()
			b.WriteString("null")
		}
		done = len(stack) == 0
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("invalid payload json: %w", io.ErrUnexpectedEOF)
	}
	return b.String(), nil
}

func writeJSONString(b *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}
