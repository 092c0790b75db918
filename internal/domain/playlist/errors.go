package playlist

import "github.com/cockroachdb/errors"

var (
	ErrInvalidURL    = errors.New("invalid playlist URL")
	ErrNotFound      = errors.New("playlist not found or invalid")
	ErrEmptyPlaylist = errors.New("playlist has no available videos")
	ErrTransport     = errors.New("playlist API request failed")
)

// MarkTransport marks err as a transport failure while keeping its message.
func MarkTransport(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrTransport)
}

// Kind classifies a pipeline failure.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidURL
	KindNotFound
	KindEmptyPlaylist
	KindTransport
)

// KindOf returns the kind of err. Unclassified errors count as transport failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidURL):
		return KindInvalidURL
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmptyPlaylist):
		return KindEmptyPlaylist
	default:
		return KindTransport
	}
}

// Code returns the message code used to look up user-facing text.
func (k Kind) Code() string {
	switch k {
	case KindNone:
		return "success"
	case KindInvalidURL:
		return "invalid_url"
	case KindNotFound:
		return "not_found"
	case KindEmptyPlaylist:
		return "empty_playlist"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidURL:
		return "invalid_url"
	case KindNotFound:
		return "not_found"
	case KindEmptyPlaylist:
		return "empty_playlist"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}
