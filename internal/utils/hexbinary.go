package utils

import (
	"encoding/hex"
)

// HexBinary is a []byte that uses hex encoding for its text representation.
// It is used for digests that end up in logs or json documents.
type HexBinary []byte

func (self *HexBinary) UnmarshalText(text []byte) error {
	var dst []byte
	hxsz := hex.DecodedLen(len(text))
	if cap([]byte(*self)) >= hxsz {
		dst = []byte(*self)[:0]
	} else {
		dst = make([]byte, 0, hxsz)
	}

	dst, err := hex.AppendDecode(dst, text)
	if nil != err {
		return newError("invalid hex text, %v", err)
	}

	*self = HexBinary(dst)
	return nil
}

func (self HexBinary) MarshalText() ([]byte, error) {
	return hex.AppendEncode(nil, []byte(self)), nil
}

// String returns the hex encoding of self.
func (self HexBinary) String() string {
	return hex.EncodeToString(self)
}
