// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package configcompression // import "github.com/drift-observability/driftcore/config/configcompression"

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

type writeCloserReset interface {
	io.WriteCloser
	Reset(w io.Writer)
}

var (
	_          writeCloserReset = (*gzip.Writer)(nil)
	gZipPool                    = &compressor{pool: sync.Pool{New: func() any { return gzip.NewWriter(nil) }}}
	_          writeCloserReset = (*snappy.Writer)(nil)
	snappyPool                  = &compressor{pool: sync.Pool{New: func() any { return snappy.NewBufferedWriter(nil) }}}
	_          writeCloserReset = (*zstd.Encoder)(nil)
	// Concurrency 1 keeps the encoder from starting background goroutines.
	zStdPool                  = &compressor{pool: sync.Pool{New: func() any { zw, _ := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1)); return zw }}}
	_        writeCloserReset = (*zlib.Writer)(nil)
	zLibPool                  = &compressor{pool: sync.Pool{New: func() any { return zlib.NewWriter(nil) }}}
)

var errUnsupported = errors.New("unsupported compression type")

type compressor struct {
	pool sync.Pool
}

func newCompressor(compressionType Type) (*compressor, error) {
	switch compressionType {
	case TypeGzip:
		return gZipPool, nil
	case TypeSnappy:
		return snappyPool, nil
	case TypeZstd:
		return zStdPool, nil
	case TypeZlib, TypeDeflate:
		return zLibPool, nil
	}
	return nil, errUnsupported
}

func (p *compressor) compress(buf *bytes.Buffer, data []byte) error {
	writer := p.pool.Get().(writeCloserReset)
	defer p.pool.Put(writer)
	writer.Reset(buf)

	if _, err := writer.Write(data); err != nil {
		return err
	}
	return writer.Close()
}

// Compress returns data compressed with the given method. Uncompressed types return
// data unchanged.
func Compress(compressionType Type, data []byte) ([]byte, error) {
	if !compressionType.IsCompressed() {
		return data, nil
	}
	c, err := newCompressor(compressionType)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = c.compress(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewReader returns a reader that decompresses r with the given method.
func NewReader(compressionType Type, r io.Reader) (io.ReadCloser, error) {
	switch compressionType {
	case TypeGzip:
		return gzip.NewReader(r)
	case TypeZlib, TypeDeflate:
		return zlib.NewReader(r)
	case TypeSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case TypeZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case typeNone, typeEmpty:
		return io.NopCloser(r), nil
	}
	return nil, errUnsupported
}
