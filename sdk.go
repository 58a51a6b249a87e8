package qbt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// ===== APPLICATION =====

// ApplicationVersion returns the daemon version, e.g. "v4.6.2".
func (qb *Client) ApplicationVersion(ctx context.Context) (string, error) {
	return qb.getText(ctx, "/api/v2/app/version", nil, ErrorCodeBadRequest, "failed to get app version")
}

// APIVersion returns the Web API version, e.g. "2.9.3".
func (qb *Client) APIVersion(ctx context.Context) (string, error) {
	return qb.getText(ctx, "/api/v2/app/webapiVersion", nil, ErrorCodeBadRequest, "failed to get api version")
}

func (qb *Client) BuildInfo(ctx context.Context) (*AppBuildInfo, error) {
	var info AppBuildInfo
	if err := qb.getJSON(ctx, "/api/v2/app/buildInfo", nil, ErrorCodeBadRequest, "failed to get build info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Shutdown stops the daemon.
func (qb *Client) Shutdown(ctx context.Context) error {
	return qb.post(ctx, "/api/v2/app/shutdown", nil, nil, ErrorCodeBadRequest, "failed to shut down")
}

// Preferences returns the daemon configuration.
func (qb *Client) Preferences(ctx context.Context) (*AppPreferences, error) {
	var prefs AppPreferences
	if err := qb.getJSON(ctx, "/api/v2/app/preferences", nil, ErrorCodeBadRequest, "failed to get preferences", &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SetPreferences changes the settings named by the keys of obj.
func (qb *Client) SetPreferences(ctx context.Context, obj JSONObject) error {
	data := url.Values{
		"json": {obj.String()},
	}

	return qb.post(ctx, "/api/v2/app/setPreferences", nil, data, ErrorCodeBadRequest, "failed to set preferences")
}

func (qb *Client) DefaultSavePath(ctx context.Context) (string, error) {
	return qb.getText(ctx, "/api/v2/app/defaultSavePath", nil, ErrorCodeBadRequest, "failed to get default save path")
}

// ===== LOG =====

// Logs returns main log messages newer than params.LastKnownID, oldest first.
func (qb *Client) Logs(ctx context.Context, params LogParams) ([]Log, error) {
	q, err := query.Values(params)
	if err != nil {
		return nil, NewClientError(ErrorCodeBadInput, "invalid log parameters", err)
	}

	var logs []Log
	if err := qb.getJSON(ctx, "/api/v2/log/main", q, ErrorCodeBadRequest, "failed to get logs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// PeerLogs returns peer log messages with an id above lastKnownID.
// Use NoLastKnownID to get all of them.
func (qb *Client) PeerLogs(ctx context.Context, lastKnownID int) ([]PeerLog, error) {
	q := url.Values{
		"last_known_id": {strconv.Itoa(lastKnownID)},
	}

	var logs []PeerLog
	if err := qb.getJSON(ctx, "/api/v2/log/peers", q, ErrorCodeBadRequest, "failed to get peer logs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ===== SYNC =====

// SyncMainData returns the changes since rid. A rid of 0 returns a full snapshot.
func (qb *Client) SyncMainData(ctx context.Context, rid int) (*SyncMainData, error) {
	q := url.Values{
		"rid": {strconv.Itoa(rid)},
	}

	var data SyncMainData
	if err := qb.getJSON(ctx, "/api/v2/sync/maindata", q, ErrorCodeBadRequest, "failed to get main data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ===== TRANSFER =====

func (qb *Client) GlobalTransferInfo(ctx context.Context) (*GlobalTransferInfo, error) {
	var info GlobalTransferInfo
	if err := qb.getJSON(ctx, "/api/v2/transfer/info", nil, ErrorCodeBadRequest, "failed to get transfer info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AlternativeSpeedLimitsEnabled reports whether the alternative speed limits are active.
func (qb *Client) AlternativeSpeedLimitsEnabled(ctx context.Context) (bool, error) {
	text, err := qb.getText(ctx, "/api/v2/transfer/speedLimitsMode", nil, ErrorCodeBadRequest, "failed to get speed limits mode")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(text) == "1", nil
}

func (qb *Client) ToggleAlternativeSpeedLimits(ctx context.Context) error {
	return qb.post(ctx, "/api/v2/transfer/toggleSpeedLimitsMode", nil, nil, ErrorCodeBadRequest, "failed to toggle speed limits mode")
}

// DownloadLimit returns the global download limit in bytes/second, 0 meaning unlimited.
func (qb *Client) DownloadLimit(ctx context.Context) (int64, error) {
	return qb.getLimit(ctx, "/api/v2/transfer/downloadLimit", "download")
}

// UploadLimit returns the global upload limit in bytes/second, 0 meaning unlimited.
func (qb *Client) UploadLimit(ctx context.Context) (int64, error) {
	return qb.getLimit(ctx, "/api/v2/transfer/uploadLimit", "upload")
}

// SetDownloadLimit sets the global download limit in bytes/second, 0 meaning unlimited.
func (qb *Client) SetDownloadLimit(ctx context.Context, limit int64) error {
	return qb.setLimit(ctx, "/api/v2/transfer/setDownloadLimit", "download", limit)
}

// SetUploadLimit sets the global upload limit in bytes/second, 0 meaning unlimited.
func (qb *Client) SetUploadLimit(ctx context.Context, limit int64) error {
	return qb.setLimit(ctx, "/api/v2/transfer/setUploadLimit", "upload", limit)
}

func (qb *Client) getLimit(ctx context.Context, endpoint, direction string) (int64, error) {
	text, err := qb.getText(ctx, endpoint, nil, ErrorCodeBadRequest, fmt.Sprintf("failed to get %s limit", direction))
	if err != nil {
		return 0, err
	}

	limit, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, NewClientError(ErrorCodeParseInt, fmt.Sprintf("invalid %s limit %q", direction, text), err)
	}
	return limit, nil
}

func (qb *Client) setLimit(ctx context.Context, endpoint, direction string, limit int64) error {
	if limit < 0 {
		return NewClientError(ErrorCodeBadInput, fmt.Sprintf("%s limit must not be negative, got %d", direction, limit), nil)
	}

	q := url.Values{
		"limit": {strconv.FormatInt(limit, 10)},
	}

	return qb.post(ctx, endpoint, q, nil, ErrorCodeBadRequest, fmt.Sprintf("failed to set %s limit", direction))
}

// BanPeers bans the given host:port peers.
func (qb *Client) BanPeers(ctx context.Context, peers ...string) error {
	list := JoinHashes(peers...)
	if list == "" {
		return NewClientError(ErrorCodeBadInput, "no peers to ban", nil)
	}

	q := url.Values{
		"peers": {list},
	}

	return qb.post(ctx, "/api/v2/transfer/banPeers", q, nil, ErrorCodeBadRequest, "failed to ban peers")
}

// ===== TORRENTS =====

// TorrentList returns the torrents matching params.
func (qb *Client) TorrentList(ctx context.Context, params TorrentListParams) ([]Torrent, error) {
	if params.Filter == "" {
		params.Filter = FilterAll
	}

	q, err := query.Values(params)
	if err != nil {
		return nil, NewClientError(ErrorCodeBadInput, "invalid torrent list parameters", err)
	}

	var torrents []Torrent
	if err := qb.getJSON(ctx, "/api/v2/torrents/info", q, ErrorCodeBadRequest, "failed to list torrents", &torrents); err != nil {
		return nil, err
	}
	return torrents, nil
}

func (qb *Client) TorrentProperties(ctx context.Context, hash string) (*TorrentProperties, error) {
	var props TorrentProperties
	if err := qb.getTorrentJSON(ctx, "/api/v2/torrents/properties", hash, "properties", &props); err != nil {
		return nil, err
	}
	return &props, nil
}

func (qb *Client) TorrentTrackers(ctx context.Context, hash string) ([]TorrentTracker, error) {
	var trackers []TorrentTracker
	if err := qb.getTorrentJSON(ctx, "/api/v2/torrents/trackers", hash, "trackers", &trackers); err != nil {
		return nil, err
	}
	return trackers, nil
}

func (qb *Client) TorrentWebSeeds(ctx context.Context, hash string) ([]TorrentWebSeed, error) {
	var seeds []TorrentWebSeed
	if err := qb.getTorrentJSON(ctx, "/api/v2/torrents/webseeds", hash, "web seeds", &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

// getTorrentJSON queries a single torrent. Failures are almost always an
// unknown hash, so they are reported as BadInput.
func (qb *Client) getTorrentJSON(ctx context.Context, endpoint, hash, what string, v any) error {
	q := url.Values{
		"hash": {hash},
	}

	return qb.getJSON(ctx, endpoint, q, ErrorCodeBadInput, fmt.Sprintf("failed to get torrent %s for hash %q", what, hash), v)
}

// PauseTorrents pauses a hash, a JoinHashes list, or AllTorrents.
func (qb *Client) PauseTorrents(ctx context.Context, hashes string) error {
	return qb.updateTorrentStatus(ctx, "pause", hashes, nil)
}

// ResumeTorrents resumes a hash, a JoinHashes list, or AllTorrents.
func (qb *Client) ResumeTorrents(ctx context.Context, hashes string) error {
	return qb.updateTorrentStatus(ctx, "resume", hashes, nil)
}

// DeleteTorrents removes torrents, and their downloaded data when deleteFiles is set.
func (qb *Client) DeleteTorrents(ctx context.Context, hashes string, deleteFiles bool) error {
	opt := map[string]string{
		"deleteFiles": strconv.FormatBool(deleteFiles),
	}

	return qb.updateTorrentStatus(ctx, "delete", hashes, opt)
}

// Reusable pause/resume/delete request
func (qb *Client) updateTorrentStatus(ctx context.Context, action, hashes string, optional map[string]string) error {
	if strings.TrimSpace(hashes) == "" {
		return NewClientError(ErrorCodeBadInput, fmt.Sprintf("no torrents to %s", action), nil)
	}

	q := url.Values{"hashes": {hashes}}
	for k, v := range optional {
		q.Set(k, v)
	}

	return qb.post(ctx, "/api/v2/torrents/"+action, q, nil, ErrorCodeBadRequest, fmt.Sprintf("failed to %s torrents", action))
}
