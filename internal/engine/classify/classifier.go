// Package classify maps raw playback error messages to error kinds.
//
// Classification is a pure, case-insensitive substring match over an ordered
// keyword table. Permanent kinds (authentication, media not found) are checked
// before transient ones so they are never mistaken for retryable network
// failures.
package classify

import (
	"strings"

	"github.com/suzukaplayer/resilience/internal/core/domain"
)

// Group associates an error kind with the message substrings that imply it.
type Group struct {
	Kind     domain.ErrorKind
	Keywords []string
}

// DefaultTable is evaluated top to bottom; the first group containing a
// matching keyword wins. Keywords must be lowercase.
var DefaultTable = []Group{
	{
		Kind: domain.KindAuthentication,
		Keywords: []string{
			"authentication", "unauthorized", "401", "403", "forbidden",
			"access denied", "login", "permission denied", "members only",
			"private",
		},
	},
	{
		Kind: domain.KindMediaNotFound,
		Keywords: []string{
			"not found", "404", "file does not exist", "no such file",
			"unavailable", "removed", "deleted",
		},
	},
	{
		Kind: domain.KindNetwork,
		Keywords: []string{
			"network", "connection", "timeout", "dns", "resolve",
			"unreachable", "temporary failure", "socket", "ssl",
			"certificate", "handshake", "offline",
		},
	},
	{
		Kind: domain.KindSystem,
		Keywords: []string{
			"format not supported", "codec", "decode", "demuxer",
			"no video", "no audio", "invalid data", "corrupted",
		},
	},
}

// Classifier resolves player error messages against a keyword table.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	table []Group
}

// New returns a classifier using DefaultTable.
func New() *Classifier {
	return &Classifier{table: DefaultTable}
}

// NewWithTable returns a classifier using a custom keyword table. The table
// order defines precedence.
func NewWithTable(table []Group) *Classifier {
	return &Classifier{table: table}
}

// Classify maps a raw error message to an ErrorKind. Matching is
// case-insensitive on the message; url is carried for parity with the
// reporting interface but the default table matches messages only.
func (c *Classifier) Classify(message, url string) domain.ErrorKind {
	lower := strings.ToLower(message)

	for _, group := range c.table {
		for _, keyword := range group.Keywords {
			if strings.Contains(lower, keyword) {
				return group.Kind
			}
		}
	}

	return domain.KindUnknown
}
