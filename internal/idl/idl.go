// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/odata.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

// CodePoint is the unit of input consumed by every matcher.
type CodePoint uint32

// String renders the code point as a quoted Go rune literal.
func (c CodePoint) String() string {
	return fmt.Sprintf("%q", rune(c))
}

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

// Location identifies a single code point of some input. Line and Column
// are 1-based; Offset is the 0-based code point offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

// Line is one line of a file body without its terminator.
type Line struct {
	Number int32
	Text   string
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindURIList
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindURIList:
		return "uri-list"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
}
