package parser

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	ErrUnsupportedShape    = errors.New("unsupported shape")
	ErrMissingMemberName   = errors.New("missing member name")
	ErrUnknownOption       = errors.New("unknown option")
	ErrMalformedAnnotation = errors.New("malformed annotation")
	ErrTypeNotFound        = errors.New("type not found")
)

// DecodeError reports why a single declaration could not be decoded. Err
// wraps one of the sentinel errors above.
type DecodeError struct {
	Pos    token.Position
	Type   string
	Member string // empty when the problem is with the declaration itself
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	subject := e.Type
	if e.Member != "" {
		subject += "." + e.Member
	}
	msg := fmt.Sprintf("%s: %v", subject, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(pos token.Position, typ, member string, err error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Pos:    pos,
		Type:   typ,
		Member: member,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
