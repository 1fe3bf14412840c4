package applications

import (
	"fmt"
	"strings"
	"time"
)

const defaultReferencePrefix = "EPC"

// NewReferenceNumber builds a globally unique reference of the form
// <prefix>-<submissionEpochMillis>-<codeFragment>. Uniqueness leans on
// wall-clock millisecond resolution plus the code fragment; exact collisions
// are practically impossible but not mathematically excluded.
func NewReferenceNumber(prefix, invitationCode string, now time.Time) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = defaultReferencePrefix
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), codeFragment(invitationCode))
}

func codeFragment(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 4 {
		code = code[len(code)-4:]
	}
	if code == "" {
		code = "0000"
	}
	return code
}
