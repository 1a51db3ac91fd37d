package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// LinkScheme prefixes every command link.
const LinkScheme = "command:"

// ErrInvalidLink is returned when a string is not a well-formed command link.
var ErrInvalidLink = errors.New("invalid command link")

// Invocation is a parsed command link.
type Invocation struct {
	Command string
	RawArgs string // JSON, already unescaped; empty when the link has no payload
}

// EncodeArgs serializes v as JSON and percent-escapes the result so it can be
// embedded in a link target. Only RFC 3986 unreserved characters are left
// as-is, so the output never contains characters that end a Markdown link.
func EncodeArgs(v any) (string, error) {
	return encodeArgsWith(json.Marshal, v)
}

func encodeArgsWith(marshal func(any) ([]byte, error), v any) (string, error) {
	data, err := marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode command args: %w", err)
	}
	return escapeComponent(string(data)), nil
}

// DecodeArgs unmarshals the JSON payload of an invocation into v.
func DecodeArgs(raw string, v any) error {
	if raw == "" {
		return fmt.Errorf("%w: missing arguments", ErrInvalidLink)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode command args: %w", err)
	}
	return nil
}

// Link builds "command:<name>?<escaped-json>" for a hover command.
func Link(name string, args any) (string, error) {
	return LinkWith(json.Marshal, name, args)
}

// LinkWith is Link with a custom JSON marshaller.
func LinkWith(marshal func(any) ([]byte, error), name string, args any) (string, error) {
	if !IsHoverCommand(name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	escaped, err := encodeArgsWith(marshal, args)
	if err != nil {
		return "", err
	}
	return LinkScheme + name + "?" + escaped, nil
}

// ParseLink splits a command link into its command name and unescaped JSON
// payload.
func ParseLink(link string) (Invocation, error) {
	rest, ok := strings.CutPrefix(link, LinkScheme)
	if !ok {
		return Invocation{}, fmt.Errorf("%w: missing %q scheme", ErrInvalidLink, LinkScheme)
	}

	name, query, _ := strings.Cut(rest, "?")
	if name == "" {
		return Invocation{}, fmt.Errorf("%w: missing command name", ErrInvalidLink)
	}

	raw, err := url.PathUnescape(query)
	if err != nil {
		return Invocation{}, fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	return Invocation{Command: name, RawArgs: raw}, nil
}

const upperhex = "0123456789ABCDEF"

func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
