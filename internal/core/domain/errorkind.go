package domain

// ErrorKind classifies a playback failure
type ErrorKind string

const (
	KindNetwork        ErrorKind = "network"
	KindMediaNotFound  ErrorKind = "media_not_found"
	KindAuthentication ErrorKind = "authentication"
	KindSystem         ErrorKind = "system"
	KindUnknown        ErrorKind = "unknown"
)

// Permanent reports whether failures of this kind cannot be fixed by
// retrying. Permanent failures are surfaced immediately instead of
// burning retry attempts.
func (k ErrorKind) Permanent() bool {
	return k == KindMediaNotFound || k == KindAuthentication
}
