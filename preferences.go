package qbt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AppPreferences mirrors app/preferences. Every field is optional because the
// daemon omits unset or unsupported settings depending on its version; a nil
// field was absent from the reply. The same struct can be passed to
// NewJSONObject to build a partial SetPreferences payload.
type AppPreferences struct {
	Locale                             *string                `json:"locale,omitempty"`
	CreateSubfolderEnabled             *bool                  `json:"create_subfolder_enabled,omitempty"`
	StartPausedEnabled                 *bool                  `json:"start_paused_enabled,omitempty"`
	PreallocateAll                     *bool                  `json:"preallocate_all,omitempty"`
	IncompleteFilesExt                 *bool                  `json:"incomplete_files_ext,omitempty"`
	AutoTMMEnabled                     *bool                  `json:"auto_tmm_enabled,omitempty"`
	TorrentChangedTMMEnabled           *bool                  `json:"torrent_changed_tmm_enabled,omitempty"`
	SavePathChangedTMMEnabled          *bool                  `json:"save_path_changed_tmm_enabled,omitempty"`
	CategoryChangedTMMEnabled          *bool                  `json:"category_changed_tmm_enabled,omitempty"`
	SavePath                           *string                `json:"save_path,omitempty"`
	TempPathEnabled                    *bool                  `json:"temp_path_enabled,omitempty"`
	TempPath                           *string                `json:"temp_path,omitempty"`
	ScanDirs                           map[string]IntOrString `json:"scan_dirs,omitempty"`
	ExportDir                          *string                `json:"export_dir,omitempty"`
	ExportDirFin                       *string                `json:"export_dir_fin,omitempty"`
	MailNotificationEnabled            *bool                  `json:"mail_notification_enabled,omitempty"`
	MailNotificationSender             *string                `json:"mail_notification_sender,omitempty"`
	MailNotificationEmail              *string                `json:"mail_notification_email,omitempty"`
	MailNotificationSMTP               *string                `json:"mail_notification_smtp,omitempty"`
	MailNotificationSSLEnabled         *bool                  `json:"mail_notification_ssl_enabled,omitempty"`
	MailNotificationAuthEnabled        *bool                  `json:"mail_notification_auth_enabled,omitempty"`
	MailNotificationUsername           *string                `json:"mail_notification_username,omitempty"`
	MailNotificationPassword           *string                `json:"mail_notification_password,omitempty"`
	AutorunEnabled                     *bool                  `json:"autorun_enabled,omitempty"`
	AutorunProgram                     *string                `json:"autorun_program,omitempty"`
	QueueingEnabled                    *bool                  `json:"queueing_enabled,omitempty"`
	MaxActiveDownloads                 *int                   `json:"max_active_downloads,omitempty"`
	MaxActiveTorrents                  *int                   `json:"max_active_torrents,omitempty"`
	MaxActiveUploads                   *int                   `json:"max_active_uploads,omitempty"`
	DontCountSlowTorrents              *bool                  `json:"dont_count_slow_torrents,omitempty"`
	SlowTorrentDlRateThreshold         *int                   `json:"slow_torrent_dl_rate_threshold,omitempty"`
	SlowTorrentUlRateThreshold         *int                   `json:"slow_torrent_ul_rate_threshold,omitempty"`
	SlowTorrentInactiveTimer           *int                   `json:"slow_torrent_inactive_timer,omitempty"`
	MaxRatioEnabled                    *bool                  `json:"max_ratio_enabled,omitempty"`
	MaxRatio                           *float64               `json:"max_ratio,omitempty"`
	MaxRatioAct                        *int                   `json:"max_ratio_act,omitempty"`
	ListenPort                         *int                   `json:"listen_port,omitempty"`
	UPnP                               *bool                  `json:"upnp,omitempty"`
	RandomPort                         *bool                  `json:"random_port,omitempty"`
	DlLimit                            *int                   `json:"dl_limit,omitempty"`
	UpLimit                            *int                   `json:"up_limit,omitempty"`
	MaxConnec                          *int                   `json:"max_connec,omitempty"`
	MaxConnecPerTorrent                *int                   `json:"max_connec_per_torrent,omitempty"`
	MaxUploads                         *int                   `json:"max_uploads,omitempty"`
	MaxUploadsPerTorrent               *int                   `json:"max_uploads_per_torrent,omitempty"`
	StopTrackerTimeout                 *int                   `json:"stop_tracker_timeout,omitempty"`
	EnablePieceExtentAffinity          *bool                  `json:"enable_piece_extent_affinity,omitempty"`
	BittorrentProtocol                 *int                   `json:"bittorrent_protocol,omitempty"`
	LimitUTPRate                       *bool                  `json:"limit_utp_rate,omitempty"`
	LimitTCPOverhead                   *bool                  `json:"limit_tcp_overhead,omitempty"`
	LimitLanPeers                      *bool                  `json:"limit_lan_peers,omitempty"`
	AltDlLimit                         *int                   `json:"alt_dl_limit,omitempty"`
	AltUpLimit                         *int                   `json:"alt_up_limit,omitempty"`
	SchedulerEnabled                   *bool                  `json:"scheduler_enabled,omitempty"`
	ScheduleFromHour                   *int                   `json:"schedule_from_hour,omitempty"`
	ScheduleFromMin                    *int                   `json:"schedule_from_min,omitempty"`
	ScheduleToHour                     *int                   `json:"schedule_to_hour,omitempty"`
	ScheduleToMin                      *int                   `json:"schedule_to_min,omitempty"`
	SchedulerDays                      *int                   `json:"scheduler_days,omitempty"`
	DHT                                *bool                  `json:"dht,omitempty"`
	PeX                                *bool                  `json:"pex,omitempty"`
	LSD                                *bool                  `json:"lsd,omitempty"`
	Encryption                         *int                   `json:"encryption,omitempty"`
	AnonymousMode                      *bool                  `json:"anonymous_mode,omitempty"`
	ProxyType                          *IntOrString           `json:"proxy_type,omitempty"`
	ProxyIP                            *string                `json:"proxy_ip,omitempty"`
	ProxyPort                          *int                   `json:"proxy_port,omitempty"`
	ProxyPeerConnections               *bool                  `json:"proxy_peer_connections,omitempty"`
	ProxyAuthEnabled                   *bool                  `json:"proxy_auth_enabled,omitempty"`
	ProxyUsername                      *string                `json:"proxy_username,omitempty"`
	ProxyPassword                      *string                `json:"proxy_password,omitempty"`
	ProxyTorrentsOnly                  *bool                  `json:"proxy_torrents_only,omitempty"`
	IPFilterEnabled                    *bool                  `json:"ip_filter_enabled,omitempty"`
	IPFilterPath                       *string                `json:"ip_filter_path,omitempty"`
	IPFilterTrackers                   *bool                  `json:"ip_filter_trackers,omitempty"`
	WebUIDomainList                    *string                `json:"web_ui_domain_list,omitempty"`
	WebUIAddress                       *string                `json:"web_ui_address,omitempty"`
	WebUIPort                          *int                   `json:"web_ui_port,omitempty"`
	WebUIUPnP                          *bool                  `json:"web_ui_upnp,omitempty"`
	WebUIUsername                      *string                `json:"web_ui_username,omitempty"`
	WebUIPassword                      *string                `json:"web_ui_password,omitempty"`
	WebUICSRFProtectionEnabled         *bool                  `json:"web_ui_csrf_protection_enabled,omitempty"`
	WebUIClickjackingProtectionEnabled *bool                  `json:"web_ui_clickjacking_protection_enabled,omitempty"`
	WebUISecureCookieEnabled           *bool                  `json:"web_ui_secure_cookie_enabled,omitempty"`
	WebUIMaxAuthFailCount              *int                   `json:"web_ui_max_auth_fail_count,omitempty"`
	WebUIBanDuration                   *int                   `json:"web_ui_ban_duration,omitempty"`
	WebUISessionTimeout                *int                   `json:"web_ui_session_timeout,omitempty"`
	WebUIHostHeaderValidationEnabled   *bool                  `json:"web_ui_host_header_validation_enabled,omitempty"`
	BypassLocalAuth                    *bool                  `json:"bypass_local_auth,omitempty"`
	BypassAuthSubnetWhitelistEnabled   *bool                  `json:"bypass_auth_subnet_whitelist_enabled,omitempty"`
	BypassAuthSubnetWhitelist          *string                `json:"bypass_auth_subnet_whitelist,omitempty"`
	AlternativeWebUIEnabled            *bool                  `json:"alternative_webui_enabled,omitempty"`
	AlternativeWebUIPath               *string                `json:"alternative_webui_path,omitempty"`
	UseHTTPS                           *bool                  `json:"use_https,omitempty"`
	SSLKey                             *string                `json:"ssl_key,omitempty"`
	SSLCert                            *string                `json:"ssl_cert,omitempty"`
	WebUIHTTPSKeyPath                  *string                `json:"web_ui_https_key_path,omitempty"`
	WebUIHTTPSCertPath                 *string                `json:"web_ui_https_cert_path,omitempty"`
	DynDNSEnabled                      *bool                  `json:"dyndns_enabled,omitempty"`
	DynDNSService                      *int                   `json:"dyndns_service,omitempty"`
	DynDNSUsername                     *string                `json:"dyndns_username,omitempty"`
	DynDNSPassword                     *string                `json:"dyndns_password,omitempty"`
	DynDNSDomain                       *string                `json:"dyndns_domain,omitempty"`
	RSSRefreshInterval                 *int                   `json:"rss_refresh_interval,omitempty"`
	RSSMaxArticlesPerFeed              *int                   `json:"rss_max_articles_per_feed,omitempty"`
	RSSProcessingEnabled               *bool                  `json:"rss_processing_enabled,omitempty"`
	RSSAutoDownloadingEnabled          *bool                  `json:"rss_auto_downloading_enabled,omitempty"`
	RSSDownloadRepackProperEpisodes    *bool                  `json:"rss_download_repack_proper_episodes,omitempty"`
	RSSSmartEpisodeFilters             *string                `json:"rss_smart_episode_filters,omitempty"`
	AddTrackersEnabled                 *bool                  `json:"add_trackers_enabled,omitempty"`
	AddTrackers                        *string                `json:"add_trackers,omitempty"`
	WebUIUseCustomHTTPHeadersEnabled   *bool                  `json:"web_ui_use_custom_http_headers_enabled,omitempty"`
	WebUICustomHTTPHeaders             *string                `json:"web_ui_custom_http_headers,omitempty"`
	MaxSeedingTimeEnabled              *bool                  `json:"max_seeding_time_enabled,omitempty"`
	MaxSeedingTime                     *int                   `json:"max_seeding_time,omitempty"`
	AnnounceToAllTiers                 *bool                  `json:"announce_to_all_tiers,omitempty"`
	AnnounceToAllTrackers              *bool                  `json:"announce_to_all_trackers,omitempty"`
	AsyncIOThreads                     *int                   `json:"async_io_threads,omitempty"`
	BannedIPs                          *string                `json:"banned_IPs,omitempty"`
	CheckingMemoryUse                  *int                   `json:"checking_memory_use,omitempty"`
	CurrentInterfaceAddress            *string                `json:"current_interface_address,omitempty"`
	CurrentNetworkInterface            *string                `json:"current_network_interface,omitempty"`
	DiskCache                          *int                   `json:"disk_cache,omitempty"`
	DiskCacheTTL                       *int                   `json:"disk_cache_ttl,omitempty"`
	EmbeddedTrackerPort                *int                   `json:"embedded_tracker_port,omitempty"`
	EnableCoalesceReadWrite            *bool                  `json:"enable_coalesce_read_write,omitempty"`
	EnableEmbeddedTracker              *bool                  `json:"enable_embedded_tracker,omitempty"`
	EnableMultiConnectionsFromSameIP   *bool                  `json:"enable_multi_connections_from_same_ip,omitempty"`
	EnableOSCache                      *bool                  `json:"enable_os_cache,omitempty"`
	EnableUploadSuggestions            *bool                  `json:"enable_upload_suggestions,omitempty"`
	FilePoolSize                       *int                   `json:"file_pool_size,omitempty"`
	OutgoingPortsMax                   *int                   `json:"outgoing_ports_max,omitempty"`
	OutgoingPortsMin                   *int                   `json:"outgoing_ports_min,omitempty"`
	RecheckCompletedTorrents           *bool                  `json:"recheck_completed_torrents,omitempty"`
	ResolvePeerCountries               *bool                  `json:"resolve_peer_countries,omitempty"`
	SaveResumeDataInterval             *int                   `json:"save_resume_data_interval,omitempty"`
	SendBufferLowWatermark             *int                   `json:"send_buffer_low_watermark,omitempty"`
	SendBufferWatermark                *int                   `json:"send_buffer_watermark,omitempty"`
	SendBufferWatermarkFactor          *int                   `json:"send_buffer_watermark_factor,omitempty"`
	SocketBacklogSize                  *int                   `json:"socket_backlog_size,omitempty"`
	UploadChokingAlgorithm             *int                   `json:"upload_choking_algorithm,omitempty"`
	UploadSlotsBehavior                *int                   `json:"upload_slots_behavior,omitempty"`
	UPnPLeaseDuration                  *int                   `json:"upnp_lease_duration,omitempty"`
	UTPTCPMixedMode                    *int                   `json:"utp_tcp_mixed_mode,omitempty"`
	MaxActiveCheckingTorrents          *int                   `json:"max_active_checking_torrents,omitempty"`
	AnnounceIP                         *string                `json:"announce_ip,omitempty"`
}

// IntOrString holds a value the daemon encodes either as a JSON integer or as a
// JSON string depending on its version. The form that was decoded is kept.
type IntOrString struct {
	isString bool
	i        int64
	s        string
}

// Int returns an IntOrString holding an integer.
func Int(i int64) IntOrString {
	return IntOrString{i: i}
}

// Str returns an IntOrString holding a string.
func Str(s string) IntOrString {
	return IntOrString{isString: true, s: s}
}

// IsString reports whether the value was a JSON string.
func (v IntOrString) IsString() bool {
	return v.isString
}

// Int64 returns the integer form. For string values it parses the text and
// reports false when that fails.
func (v IntOrString) Int64() (int64, bool) {
	if !v.isString {
		return v.i, true
	}

	i, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (v IntOrString) String() string {
	if v.isString {
		return v.s
	}
	return strconv.FormatInt(v.i, 10)
}

func (v IntOrString) MarshalJSON() ([]byte, error) {
	if v.isString {
		return json.Marshal(v.s)
	}
	return []byte(strconv.FormatInt(v.i, 10)), nil
}

func (v *IntOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		i, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("expected an integer, got %s", data)
		}
		*v = Int(i)
		return nil
	}

	return fmt.Errorf("expected a string or an integer, got %s", data)
}
