// Package lzf decodes the LZF block format used inside yxdb files.
//
// An LZF stream is a sequence of operations, each introduced by a control
// byte.  A control byte below 32 starts a literal run of ctrl+1 bytes copied
// verbatim from the input.  Any other control byte is a back-reference: the
// top three bits hold a length (7 means another length byte follows) and the
// low five bits together with the next byte give the distance back into the
// output already produced.  Back-references may overlap the bytes they are
// producing, which is how runs of a repeated pattern are encoded.
package lzf

import "errors"

var (
	ErrBufferTooSmall = errors.New("lzf: output buffer too small")
	ErrCorrupt        = errors.New("lzf: corrupt input")
)

// Decompressor holds the cursors of a single decompression.  The zero value
// is ready to use and a Decompressor may be reused for any number of
// independent calls to Decompress.
type Decompressor struct {
	in  int
	out int
}

// Decompress is a convenience for decoding with a fresh Decompressor.
func Decompress(src, dst []byte) (int, error) {
	var d Decompressor
	return d.Decompress(src, dst)
}

// Decompress decodes all of src into dst and returns the number of bytes
// written.  If dst cannot hold the decoded output, ErrBufferTooSmall is
// returned and the contents of dst are unspecified.
func (d *Decompressor) Decompress(src, dst []byte) (int, error) {
	d.in = 0
	d.out = 0
	for d.in < len(src) {
		ctrl := int(src[d.in])
		d.in++
		var err error
		if ctrl < 32 {
			err = d.literal(src, dst, ctrl+1)
		} else {
			err = d.backref(src, dst, ctrl)
		}
		if err != nil {
			return d.out, err
		}
	}
	return d.out, nil
}

func (d *Decompressor) literal(src, dst []byte, n int) error {
	if d.out+n > len(dst) {
		return ErrBufferTooSmall
	}
	if d.in+n > len(src) {
		return ErrCorrupt
	}
	copy(dst[d.out:], src[d.in:d.in+n])
	d.in += n
	d.out += n
	return nil
}

func (d *Decompressor) backref(src, dst []byte, ctrl int) error {
	length := ctrl >> 5
	ref := d.out - ((ctrl & 0x1f) << 8) - 1
	if length == 7 {
		if d.in >= len(src) {
			return ErrCorrupt
		}
		length += int(src[d.in])
		d.in++
	}
	length += 2
	if d.out+length > len(dst) {
		return ErrBufferTooSmall
	}
	if d.in >= len(src) {
		return ErrCorrupt
	}
	ref -= int(src[d.in])
	d.in++
	if ref < 0 {
		return ErrCorrupt
	}
	// The source and destination ranges may overlap so this must be
	// a forward byte-at-a-time copy.
	for ; length > 0; length-- {
		dst[d.out] = dst[ref]
		d.out++
		ref++
	}
	return nil
}
