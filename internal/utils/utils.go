package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}

var suiAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// NormalizeSuiAddress lowercases a Sui address and checks its shape
// (0x + up to 64 hex chars; short forms are accepted as on chain).
func NormalizeSuiAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !suiAddressRe.MatchString(addr) {
		return "", fmt.Errorf("invalid sui address %q", addr)
	}
	return strings.ToLower(addr), nil
}
