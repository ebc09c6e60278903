package ledger

import (
	"fmt"
	"math/big"
	"strings"
)

// maxFeltBits bounds identifiers to a 252-bit field element.
const maxFeltBits = 252

// TransactionID is the caller-assigned fingerprint of a transaction,
// kept in canonical lowercase 0x-prefixed hex form.
type TransactionID string

// Identity identifies a caller or account, in the same canonical hex form.
type Identity string

// ParseTransactionID accepts 0x-prefixed hex or decimal input.
func ParseTransactionID(s string) (TransactionID, error) {
	v, err := canonicalHex(s)
	if err != nil {
		return "", err
	}
	return TransactionID(v), nil
}

// ParseIdentity accepts 0x-prefixed hex or decimal input.
func ParseIdentity(s string) (Identity, error) {
	v, err := canonicalHex(s)
	if err != nil {
		return "", err
	}
	return Identity(v), nil
}

// MustParseIdentity panics on malformed input. Intended for constants and tests.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// MustParseTransactionID panics on malformed input. Intended for constants and tests.
func MustParseTransactionID(s string) TransactionID {
	id, err := ParseTransactionID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id TransactionID) IsZero() bool { return isZeroHex(string(id)) }

func (id TransactionID) String() string { return string(id) }

func (id Identity) IsZero() bool { return isZeroHex(string(id)) }

func (id Identity) String() string { return string(id) }

func isZeroHex(s string) bool {
	return s == "" || s == "0x0"
}

func canonicalHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidIdentifier)
	}

	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("%w: %q is not a hex or decimal number", ErrInvalidIdentifier, s)
	}
	if n.BitLen() > maxFeltBits {
		return "", fmt.Errorf("%w: %q exceeds %d bits", ErrInvalidIdentifier, s, maxFeltBits)
	}

	return "0x" + n.Text(16), nil
}
