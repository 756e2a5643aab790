package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	trackingPrefix   = "EX"
	shipmentPrefix   = "EXS"
	defaultCountry   = "XX"
	trackingDigitMax = 10_000_000 // 7-digit segment range 0..9,999,999
)

// NewTrackingNumber issues a tracking number of the form
// EX<yy><country><7 digits><letter>. The country code is uppercased and
// truncated or padded to exactly two letters, defaulting to XX when absent
// or not alphabetic. The random segments come from a cryptographically
// secure source: the number doubles as an unguessable lookup token.
func NewTrackingNumber(originCountryCode string) (string, error) {
	country := normalizeCountry(originCountryCode)
	year := time.Now().UTC().Format("06")

	n, err := rand.Int(rand.Reader, big.NewInt(trackingDigitMax))
	if err != nil {
		return "", fmt.Errorf("failed to draw tracking digits: %w", err)
	}

	letter, err := rand.Int(rand.Reader, big.NewInt(26))
	if err != nil {
		return "", fmt.Errorf("failed to draw tracking letter: %w", err)
	}

	return fmt.Sprintf("%s%s%s%07d%c", trackingPrefix, year, country, n.Int64(), rune('A'+letter.Int64())), nil
}

// NewShipmentID issues a shipment id of the form EXS-<yymmdd>-<6 hex>,
// where the suffix is three cryptographically random bytes uppercased.
func NewShipmentID() (string, error) {
	var buf [3]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to draw shipment id bytes: %w", err)
	}

	date := time.Now().UTC().Format("060102")
	return fmt.Sprintf("%s-%s-%s", shipmentPrefix, date, strings.ToUpper(hex.EncodeToString(buf[:]))), nil
}

func normalizeCountry(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return defaultCountry
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return defaultCountry
		}
	}
	if len(code) > 2 {
		code = code[:2]
	}
	for len(code) < 2 {
		code += "X"
	}
	return code
}
