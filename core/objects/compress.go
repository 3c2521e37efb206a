package objects

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// ContentEncodingGzip is set on objects written with compression enabled.
const ContentEncodingGzip = "gzip"

// gzipBytes compresses content into a single gzip member.
func gzipBytes(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := gzipTo(&buf, bytes.NewReader(content)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gzipTo streams r through a gzip writer into w.
func gzipTo(w io.Writer, r io.Reader) error {
	zw := gzip.NewWriter(w)
	if _, err := io.Copy(zw, r); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
