package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"
)

const weiDecimals = 18

// ChecksumAddress returns the EIP-55 mixed-case form of a hex address.
func ChecksumAddress(addr string) (string, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if len(raw) != 40 {
		return "", fmt.Errorf("invalid address %q", addr)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	lower := strings.ToLower(raw)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := make([]byte, 40)
	for i := 0; i < 40; i++ {
		c := lower[i]
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if c >= 'a' && c <= 'f' && nibble&0x0f >= 8 {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out), nil
}

// parseQuantity decodes a JSON-RPC hex quantity such as "0x1bc16d674ec80000".
func parseQuantity(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode quantity: %w", err)
	}
	return parseHexBig(s)
}

func parseHexBig(s string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}

func toQuantity(n *big.Int) string {
	return "0x" + n.Text(16)
}

// FormatEther renders a wei amount in ether at full precision, without
// trailing zeros.
func FormatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -weiDecimals).String()
}

// ParseEther converts a decimal ether amount into wei.
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative amount %q", amount)
	}
	return d.Shift(weiDecimals).Truncate(0).BigInt(), nil
}

// utf8ToHex encodes a message the way personal_sign expects it.
func utf8ToHex(msg string) string {
	return "0x" + hex.EncodeToString([]byte(msg))
}
