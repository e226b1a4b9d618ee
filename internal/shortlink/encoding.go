package shortlink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// Alphabet leaves out vowels and look-alike characters.
	Alphabet = "23456789bcdfghjkmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ-_"

	// CodeLength is the width codes are left padded to.
	CodeLength = 6

	padChar = '0'
	base    = uint64(len(Alphabet))
)

// Encode writes n in the Alphabet base, most significant digit first. Encode(0) is "".
func Encode(n uint64) string {
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode is the inverse of Encode. Leading padding is ignored.
func Decode(s string) (uint64, error) {
	var n uint64
	for _, c := range strings.TrimLeft(s, string(padChar)) {
		digit := strings.IndexRune(Alphabet, c)
		if digit < 0 {
			return 0, fmt.Errorf("invalid short link character %q in %q", c, s)
		}

		hi, lo := bits.Mul64(n, base)
		sum, carry := bits.Add64(lo, uint64(digit), 0)
		if hi != 0 || carry != 0 {
			return 0, fmt.Errorf("short link %q overflows", s)
		}
		n = sum
	}
	return n, nil
}

// CodeForTx derives the short link of a transaction from the first four bytes of its hash.
func CodeForTx(tx common.Hash) string {
	code := Encode(uint64(binary.BigEndian.Uint32(tx[:4])))
	if len(code) < CodeLength {
		code = strings.Repeat(string(padChar), CodeLength-len(code)) + code
	}
	return code
}

// Slot right aligns code in the 32 byte value stored on chain.
func Slot(code string) [32]byte {
	var slot [32]byte
	b := []byte(code)
	if len(b) > len(slot) {
		b = b[len(b)-len(slot):]
	}
	copy(slot[len(slot)-len(b):], b)
	return slot
}

// SlotToCode reads a code back from its on-chain slot. An empty slot yields "".
func SlotToCode(slot [32]byte) string {
	return string(bytes.Trim(slot[:], "\x00"))
}
