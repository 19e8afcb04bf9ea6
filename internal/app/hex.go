package app

import (
	"encoding/hex"
	"strings"
)

func bytesToHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "0x" + strings.ToLower(hex.EncodeToString(b))
}
