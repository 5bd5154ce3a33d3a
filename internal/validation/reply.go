package validation

import (
	"errors"
	"strings"
)

// ReplyCode is one of the three answers a user can send to a nudge.
type ReplyCode int

const (
	ReplyDone        ReplyCode = 1
	ReplyLater       ReplyCode = 2
	ReplyAlternative ReplyCode = 3
)

var ErrInvalidReplyCode = errors.New("reply must be 1, 2 or 3")

// Keycap emoji digits, as sent by some phone keyboards.
var keycapReplacer = strings.NewReplacer(
	"\ufe0f", "",
	"\u20e3", "",
)

// ParseReplyCode accepts "1", "2" or "3", surrounding whitespace and
// keycap variants included.
func ParseReplyCode(input string) (ReplyCode, error) {
	trimmed := strings.TrimSpace(keycapReplacer.Replace(input))

	switch trimmed {
	case "1":
		return ReplyDone, nil
	case "2":
		return ReplyLater, nil
	case "3":
		return ReplyAlternative, nil
	}

	return 0, ErrInvalidReplyCode
}
