package qbt

import (
	"strings"

	"github.com/scylladb/go-set/strset"
)

// NoLastKnownID asks the log endpoints for every message.
const NoLastKnownID = -1

// AllTorrents selects every torrent in the bulk torrent actions.
const AllTorrents = "all"

// LogParams selects the main log severities and the message cursor.
// Messages with an id lower than or equal to LastKnownID are excluded.
type LogParams struct {
	Normal      bool `url:"normal"`
	Info        bool `url:"info"`
	Warning     bool `url:"warning"`
	Critical    bool `url:"critical"`
	LastKnownID int  `url:"last_known_id"`
}

// DefaultLogParams enables every severity and requests all messages.
func DefaultLogParams() LogParams {
	return LogParams{
		Normal:      true,
		Info:        true,
		Warning:     true,
		Critical:    true,
		LastKnownID: NoLastKnownID,
	}
}

// TorrentFilter is the state filter of torrents/info.
type TorrentFilter string

const (
	FilterAll                TorrentFilter = "all"
	FilterDownloading        TorrentFilter = "downloading"
	FilterSeeding            TorrentFilter = "seeding"
	FilterCompleted          TorrentFilter = "completed"
	FilterPaused             TorrentFilter = "paused"
	FilterActive             TorrentFilter = "active"
	FilterInactive           TorrentFilter = "inactive"
	FilterResumed            TorrentFilter = "resumed"
	FilterStalled            TorrentFilter = "stalled"
	FilterStalledUploading   TorrentFilter = "stalled_uploading"
	FilterStalledDownloading TorrentFilter = "stalled_downloading"
	FilterErrored            TorrentFilter = "errored"
)

var torrentFilters = []TorrentFilter{
	FilterAll, FilterDownloading, FilterSeeding, FilterCompleted, FilterPaused, FilterActive,
	FilterInactive, FilterResumed, FilterStalled, FilterStalledUploading, FilterStalledDownloading,
	FilterErrored,
}

// ParseTorrentFilter returns the filter named s.
func ParseTorrentFilter(s string) (TorrentFilter, bool) {
	for _, f := range torrentFilters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// TorrentListParams configures torrents/info. The zero value of the optional
// pointer fields leaves the parameter out of the query.
type TorrentListParams struct {
	Filter   TorrentFilter `url:"filter"`
	Category string        `url:"category"`
	Tag      string        `url:"tag"`
	Sort     *string       `url:"sort,omitempty"`
	Reverse  bool          `url:"reverse"`
	Limit    *int          `url:"limit,omitempty"`
	Offset   *int          `url:"offset,omitempty"`
	Hashes   *string       `url:"hashes,omitempty"`
}

// DefaultTorrentListParams lists every torrent without sorting or paging.
func DefaultTorrentListParams() TorrentListParams {
	return TorrentListParams{Filter: FilterAll}
}

// JoinHashes builds the pipe separated hash list used by bulk torrent actions.
// Empty and repeated hashes are dropped; order is kept.
func JoinHashes(hashes ...string) string {
	seen := strset.NewWithSize(len(hashes))
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		h = strings.TrimSpace(h)
		if h == "" || seen.Has(h) {
			continue
		}
		seen.Add(h)
		out = append(out, h)
	}
	return strings.Join(out, "|")
}
