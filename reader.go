package rope

import (
	"io"

	"github.com/scigolib/rope/internal/tree"
	"github.com/scigolib/rope/internal/utils"
)

// Reader streams a snapshot's bytes. It reads the revision the rope
// held when the Reader was created; edits producing later revisions do
// not affect it.
type Reader struct {
	src io.Reader
}

// NewReader returns a reader over r's whole text.
func NewReader(r Rope) *Reader {
	return NewReaderAt(r, 0)
}

// NewReaderAt returns a reader over r's text starting at the base
// offset, which must lie in [0, Len()].
func NewReaderAt(r Rope, offset int) *Reader {
	if offset < 0 || offset > r.Len() {
		panic("rope: reader offset out of range")
	}
	return &Reader{src: tree.NewReader(r.node(), offset)}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

// WriteTo implements io.WriterTo, draining the remaining text through
// a pooled buffer.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	buf := utils.GetBuffer(32 * 1024)
	defer utils.ReleaseBuffer(buf)
	var total int64
	for {
		n, err := r.src.Read(buf[:cap(buf)])
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

var (
	_ io.Reader   = (*Reader)(nil)
	_ io.WriterTo = (*Reader)(nil)
)
