// Package yxdbio reads Alteryx yxdb files.
//
// A yxdb file is a 512-byte header, a UTF-16 XML description of the
// record fields (the meta info) and a stream of blocks.  Each block is
// prefixed by a little-endian 32-bit word whose top bit marks a block
// stored as is; other blocks are LZF compressed.  The concatenated
// contents of the blocks form a sequence of records, each with a fixed
// part laid out as described by the meta info.  When any field is of a
// variable-length type the fixed part is followed by a 32-bit length and
// that many bytes of variable data, and the field holds either a small
// value inline or the position of its value within the variable data.
//
// Every fixed-width value other than Bool is followed by a byte that is 1
// when the value is null.
package yxdbio
