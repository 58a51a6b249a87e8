package qbt

import (
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/pkg/errors"
)

// MagnetLink is the decoded form of a torrent's magnet_uri.
type MagnetLink struct {
	Hash        string
	DisplayName string
	Trackers    []string
	ExactLength string
	ExactSource string
	Keywords    string
}

// ParseMagnetLink extracts information from a magnet link
func ParseMagnetLink(magnetURI string) (*MagnetLink, error) {
	if !strings.HasPrefix(magnetURI, "magnet:?") {
		return nil, errors.New("invalid magnet link format")
	}

	m, err := metainfo.ParseMagnetUri(magnetURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse magnet link")
	}

	return &MagnetLink{
		Hash:        m.InfoHash.HexString(),
		DisplayName: m.DisplayName,
		Trackers:    m.Trackers,
		ExactLength: m.Params.Get("xl"),
		ExactSource: m.Params.Get("xs"),
		Keywords:    m.Params.Get("kt"),
	}, nil
}

// Magnet decodes the torrent's magnet_uri.
func (t Torrent) Magnet() (*MagnetLink, error) {
	if t.MagnetURI == "" {
		return nil, errors.Errorf("torrent %s has no magnet uri", t.Hash)
	}
	return ParseMagnetLink(t.MagnetURI)
}
