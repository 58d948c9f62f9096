// Package keycodec converts between the URL-safe unpadded base64 VAPID
// public key and the raw byte form the subscribe call requires. The key
// encodes an elliptic-curve point, so decoding must be bit-exact: a
// single wrong byte yields a subscription the delivery service rejects
// at send time, not at subscribe time.
package keycodec

import (
	"encoding/base64"
	"strings"
)

var base64urlToStd = strings.NewReplacer("-", "+", "_", "/")

// Decode converts a URL-safe base64 string, possibly missing trailing
// padding, into raw bytes. Malformed input surfaces the underlying
// base64 decode error unchanged.
func Decode(key string) ([]byte, error) {
	padding := (4 - len(key)%4) % 4
	padded := key + strings.Repeat("=", padding)

	return base64.StdEncoding.DecodeString(base64urlToStd.Replace(padded))
}

// Encode is the inverse of Decode: unpadded URL-safe base64.
func Encode(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}
