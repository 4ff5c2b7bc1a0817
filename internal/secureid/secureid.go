// Package secureid decodes and encodes the secure booking reference used
// as the opaque-looking URL segment in guest upload links.
//
// The legacy format, generated by the WordPress plugin, concatenates the
// numeric booking id with the check-in date and optionally the check-out
// date (both YYYYMMDD, digits only, no separators). Because there is no
// delimiter, decoding is ambiguous whenever the booking id itself ends in
// digits that could be read as part of a date group; the legacy parser
// keeps the original regex semantics (non-greedy leading group) and makes
// no attempt to disambiguate.
//
// New links use an unambiguous token: the id is length-prefixed before the
// fixed-width dates and the whole tuple is base64url-encoded. Parse accepts
// both forms.
package secureid

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid is returned for references that match neither the token nor
// the legacy digit format. Callers surface it as a user-facing 400/404.
var ErrInvalid = errors.New("invalid booking reference")

// Reference is the decoded secure booking reference. CheckIn and CheckOut
// are raw YYYYMMDD digit strings; they are round-tripped for obfuscation
// only and are not reparsed for business logic. CheckOut may be empty.
type Reference struct {
	BookingID string
	CheckIn   string
	CheckOut  string
}

var legacyPattern = regexp.MustCompile(`^(\d+?)(\d{8})(\d{8})?$`)

const tokenPrefix = "v2"

// Parse decodes a secure booking reference, trying the unambiguous token
// format first and falling back to the legacy digit format.
func Parse(s string) (Reference, error) {
	if ref, err := parseToken(s); err == nil {
		return ref, nil
	}
	return ParseLegacy(s)
}

// ParseLegacy decodes the WordPress-era concatenated digit format. The
// leading non-greedy digit group is the booking id, the next 8 digits the
// check-in date and an optional trailing 8 digits the check-out date. It
// fails on non-digit input or fewer than 8 trailing digits.
func ParseLegacy(s string) (Reference, error) {
	m := legacyPattern.FindStringSubmatch(s)
	if m == nil {
		return Reference{}, ErrInvalid
	}
	return Reference{BookingID: m[1], CheckIn: m[2], CheckOut: m[3]}, nil
}

// EncodeLegacy reproduces the WordPress plugin's secure id: booking id,
// check-in and check-out digits concatenated. Kept for links that were
// already emailed out.
func EncodeLegacy(ref Reference) string {
	return ref.BookingID + ref.CheckIn + ref.CheckOut
}

// Encode produces the unambiguous token form used for newly generated
// links: "v2:<idlen>:<id><checkin><checkout>" base64url-encoded. Decoding
// is well defined for every possible id length.
func Encode(ref Reference) string {
	payload := fmt.Sprintf("%s:%d:%s%s%s", tokenPrefix, len(ref.BookingID), ref.BookingID, ref.CheckIn, ref.CheckOut)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func parseToken(s string) (Reference, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Reference{}, ErrInvalid
	}

	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) != 3 || parts[0] != tokenPrefix {
		return Reference{}, ErrInvalid
	}

	idLen, err := strconv.Atoi(parts[1])
	if err != nil || idLen <= 0 {
		return Reference{}, ErrInvalid
	}

	rest := parts[2]
	if len(rest) < idLen+8 {
		return Reference{}, ErrInvalid
	}

	ref := Reference{
		BookingID: rest[:idLen],
		CheckIn:   rest[idLen : idLen+8],
	}

	switch tail := rest[idLen+8:]; len(tail) {
	case 0:
	case 8:
		ref.CheckOut = tail
	default:
		return Reference{}, ErrInvalid
	}

	if !allDigits(ref.BookingID) || !allDigits(ref.CheckIn) || !allDigits(ref.CheckOut) {
		return Reference{}, ErrInvalid
	}

	return ref, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
