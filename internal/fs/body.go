// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/idl"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// NewFileString wraps in-memory content as a file.
func NewFileString(path string, content string, kind idl.FileKind) idl.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

// NewFileFN wraps a file whose content is produced by open. Every call to Body
// calls open again, so open must return a fresh handle each time.
func NewFileFN(path string, open func() (io.ReadCloser, error), kind idl.FileKind) idl.File {
	return &lazyFile{
		path: path,
		kind: kind,
		open: open,
	}
}

type lazyFile struct {
	path string
	kind idl.FileKind
	open func() (io.ReadCloser, error)
}

func (self *lazyFile) Path(ctx context.Context) string {
	return self.path
}

func (self *lazyFile) Kind(ctx context.Context) idl.FileKind {
	return self.kind
}

// Body opens the content. A leading UTF-8 byte order mark is dropped so that
// it never ends up in the first line.
func (self *lazyFile) Body(ctx context.Context) (idl.FileBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: self.path}, err)
	}
	rc, err := self.open()
	if err != nil {
		return nil, fsErr(self.path, err)
	}
	br := bufio.NewReader(rc)
	if head, err := br.Peek(len(byteOrderMark)); err == nil && bytes.Equal(head, byteOrderMark) {
		_, _ = br.Discard(len(byteOrderMark))
	}
	return &readerBody{uri: self.path, r: br, c: rc}, nil
}

// readerBody adapts an io.Reader to idl.FileBody. End of input is reported as
// an exception with CodeEOF that still matches io.EOF.
type readerBody struct {
	uri string
	r   io.Reader
	c   io.Closer
	buf []byte
}

func (self *readerBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: self.uri}, err)
	}
	if len(self.buf) < int(size) {
		self.buf = make([]byte, size)
	}
	count, err := self.r.Read(self.buf[:size])
	switch {
	case errors.Is(err, io.EOF):
		return self.buf[:count], exc.Wrap(exc.Location{URI: self.uri}, exc.CodeEOF, err)
	case err != nil:
		return nil, exc.WrapUnknown(exc.Location{URI: self.uri}, err)
	}
	return self.buf[:count], nil
}

func (self *readerBody) Close(ctx context.Context) error {
	return self.c.Close()
}
