package qbt

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is a typed qBittorrent Web API client. It is safe for concurrent use.
type Client struct {
	mu      sync.RWMutex
	baseURL *url.URL
	client  *http.Client
	jar     *cookiejar.Jar
	log     *logrus.Entry
}

// Config contains runtime client settings.
type Config struct {
	BaseURL string
	// RequestTimeout bounds each request; zero leaves it to the transport
	RequestTimeout time.Duration
	TLSSkipVerify  bool
	Debug          bool
	Log            *logrus.Entry
}

// AppBuildInfo describes the libraries the daemon was built with.
type AppBuildInfo struct {
	Qt         string `json:"qt"`
	Libtorrent string `json:"libtorrent"`
	Boost      string `json:"boost"`
	OpenSSL    string `json:"openssl"`
	Bitness    int    `json:"bitness"`
}

// LogType is the severity of a main log entry.
type LogType int

const (
	LogNormal   LogType = 1
	LogInfo     LogType = 2
	LogWarning  LogType = 4
	LogCritical LogType = 8
)

func (t LogType) String() string {
	switch t {
	case LogNormal:
		return "normal"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogCritical:
		return "critical"
	}
	return "unknown"
}

// Log is an entry of the main log.
type Log struct {
	ID        int     `json:"id"`
	Message   string  `json:"message"`
	Timestamp int64   `json:"timestamp"`
	Type      LogType `json:"type"`
}

// PeerLog is an entry of the peer log.
type PeerLog struct {
	ID        int    `json:"id"`
	IP        string `json:"ip"`
	Timestamp int64  `json:"timestamp"`
	Blocked   bool   `json:"blocked"`
	Reason    string `json:"reason"`
}

// GlobalTransferInfo represents global transfer information.
type GlobalTransferInfo struct {
	DlInfoSpeed      int64  `json:"dl_info_speed"`
	DlInfoData       int64  `json:"dl_info_data"`
	UpInfoSpeed      int64  `json:"up_info_speed"`
	UpInfoData       int64  `json:"up_info_data"`
	DlRateLimit      int64  `json:"dl_rate_limit"`
	UpRateLimit      int64  `json:"up_rate_limit"`
	DhtNodes         int    `json:"dht_nodes"`
	ConnectionStatus string `json:"connection_status"`
}

// ServerState is the server_state part of a sync snapshot.
type ServerState struct {
	GlobalTransferInfo
	FreeSpaceOnDisk      int64  `json:"free_space_on_disk"`
	AllTimeDl            int64  `json:"alltime_dl"`
	AllTimeUl            int64  `json:"alltime_ul"`
	GlobalRatio          string `json:"global_ratio"`
	Queueing             bool   `json:"queueing"`
	UseAltSpeedLimits    bool   `json:"use_alt_speed_limits"`
	RefreshInterval      int    `json:"refresh_interval"`
	TotalPeerConnections int    `json:"total_peer_connections"`
	AverageTimeQueue     int    `json:"average_time_queue"`
	ReadCacheHits        string `json:"read_cache_hits"`
	WriteCacheOverload   string `json:"write_cache_overload"`
	QueuedIOJobs         int    `json:"queued_io_jobs"`
	TotalBuffersSize     int64  `json:"total_buffers_size"`
	TotalQueuedSize      int64  `json:"total_queued_size"`
	TotalWastedSession   int64  `json:"total_wasted_session"`
}

// Category is a torrent category.
type Category struct {
	Name     string `json:"name"`
	SavePath string `json:"savePath"`
}

// SyncMainData is an incremental snapshot. Pass RID back to get the next delta.
type SyncMainData struct {
	RID               int                 `json:"rid"`
	FullUpdate        bool                `json:"full_update"`
	Torrents          map[string]Torrent  `json:"torrents"`
	TorrentsRemoved   []string            `json:"torrents_removed"`
	Categories        map[string]Category `json:"categories"`
	CategoriesRemoved []string            `json:"categories_removed"`
	Tags              []string            `json:"tags"`
	TagsRemoved       []string            `json:"tags_removed"`
	ServerState       ServerState         `json:"server_state"`
}

// NextRID returns the response id to send on the following SyncMainData call.
func (d *SyncMainData) NextRID() int {
	return d.RID
}

// Torrent is a snapshot of one torrent as returned by torrents/info and sync/maindata.
type Torrent struct {
	AddedOn           int64   `json:"added_on"`
	AmountLeft        int64   `json:"amount_left"`
	AutoTmm           bool    `json:"auto_tmm"`
	Availability      float64 `json:"availability"`
	Category          string  `json:"category"`
	Completed         int64   `json:"completed"`
	CompletionOn      int64   `json:"completion_on"`
	ContentPath       string  `json:"content_path"`
	DlLimit           int64   `json:"dl_limit"`
	Dlspeed           int64   `json:"dlspeed"`
	Downloaded        int64   `json:"downloaded"`
	DownloadedSession int64   `json:"downloaded_session"`
	Eta               int64   `json:"eta"`
	FLPiecePrio       bool    `json:"f_l_piece_prio"`
	ForceStart        bool    `json:"force_start"`
	Hash              string  `json:"hash"`
	InfoHashV1        string  `json:"infohash_v1"`
	InfoHashV2        string  `json:"infohash_v2"`
	IsPrivate         bool    `json:"isPrivate"`
	LastActivity      int64   `json:"last_activity"`
	MagnetURI         string  `json:"magnet_uri"`
	MaxRatio          float64 `json:"max_ratio"`
	MaxSeedingTime    int64   `json:"max_seeding_time"`
	Name              string  `json:"name"`
	NumComplete       int     `json:"num_complete"`
	NumIncomplete     int     `json:"num_incomplete"`
	NumLeechs         int     `json:"num_leechs"`
	NumSeeds          int     `json:"num_seeds"`
	Priority          int     `json:"priority"`
	Progress          float64 `json:"progress"`
	Ratio             float64 `json:"ratio"`
	SavePath          string  `json:"save_path"`
	SeedingTime       int64   `json:"seeding_time"`
	SeenComplete      int64   `json:"seen_complete"`
	SeqDl             bool    `json:"seq_dl"`
	Size              int64   `json:"size"`
	State             string  `json:"state"`
	SuperSeeding      bool    `json:"super_seeding"`
	Tags              string  `json:"tags"`
	TimeActive        int64   `json:"time_active"`
	Tracker           string  `json:"tracker"`
	UpLimit           int64   `json:"up_limit"`
	Uploaded          int64   `json:"uploaded"`
	UploadedSession   int64   `json:"uploaded_session"`
	Upspeed           int64   `json:"upspeed"`
}

// TagList splits the comma separated Tags field.
func (t Torrent) TagList() []string {
	if t.Tags == "" {
		return nil
	}

	parts := strings.Split(t.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// TorrentProperties holds the generic properties of a torrent.
type TorrentProperties struct {
	SavePath               string  `json:"save_path"`
	CreationDate           int64   `json:"creation_date"`
	PieceSize              int64   `json:"piece_size"`
	Comment                string  `json:"comment"`
	TotalWasted            int64   `json:"total_wasted"`
	TotalUploaded          int64   `json:"total_uploaded"`
	TotalUploadedSession   int64   `json:"total_uploaded_session"`
	TotalDownloaded        int64   `json:"total_downloaded"`
	TotalDownloadedSession int64   `json:"total_downloaded_session"`
	UpLimit                int64   `json:"up_limit"`
	DlLimit                int64   `json:"dl_limit"`
	TimeElapsed            int64   `json:"time_elapsed"`
	SeedingTime            int64   `json:"seeding_time"`
	NbConnections          int     `json:"nb_connections"`
	NbConnectionsLimit     int     `json:"nb_connections_limit"`
	ShareRatio             float64 `json:"share_ratio"`
	AdditionDate           int64   `json:"addition_date"`
	CompletionDate         int64   `json:"completion_date"`
	CreatedBy              string  `json:"created_by"`
	DlSpeedAvg             int64   `json:"dl_speed_avg"`
	DlSpeed                int64   `json:"dl_speed"`
	Eta                    int64   `json:"eta"`
	LastSeen               int64   `json:"last_seen"`
	Peers                  int     `json:"peers"`
	PeersTotal             int     `json:"peers_total"`
	PiecesHave             int     `json:"pieces_have"`
	PiecesNum              int     `json:"pieces_num"`
	Reannounce             int64   `json:"reannounce"`
	Seeds                  int     `json:"seeds"`
	SeedsTotal             int     `json:"seeds_total"`
	TotalSize              int64   `json:"total_size"`
	UpSpeedAvg             int64   `json:"up_speed_avg"`
	UpSpeed                int64   `json:"up_speed"`
	IsPrivate              bool    `json:"isPrivate"`
}

// TrackerStatus is the announce state of a tracker.
type TrackerStatus int

const (
	TrackerDisabled TrackerStatus = iota
	TrackerNotContacted
	TrackerWorking
	TrackerUpdating
	TrackerNotWorking
)

// TorrentTracker is one tracker of a torrent.
type TorrentTracker struct {
	URL           string        `json:"url"`
	Status        TrackerStatus `json:"status"`
	Tier          IntOrString   `json:"tier"`
	NumPeers      int           `json:"num_peers"`
	NumSeeds      int           `json:"num_seeds"`
	NumLeeches    int           `json:"num_leeches"`
	NumDownloaded int           `json:"num_downloaded"`
	Msg           string        `json:"msg"`
}

// TorrentWebSeed is one web seed of a torrent.
type TorrentWebSeed struct {
	URL string `json:"url"`
}
