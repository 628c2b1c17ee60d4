package remote

import (
	"net/url"
	"strings"
)

const DefaultStreamBase = "ws://localhost:8000/api/v1"

// StreamURL swaps the API base scheme for its websocket counterpart and appends path.
func StreamURL(apiBase, path string) string {
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if base == "" {
		return DefaultStreamBase + path
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return DefaultStreamBase + path
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}
