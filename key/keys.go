// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playlist Construction - these keys govern the parallel metadata extraction stage.
const (
	PlaylistWorkers = "playlist.workers"
)

// Media Playback - these keys maintain the state and configuration of the audio backend.
const (
	PlayerEngine         = "player.engine"
	PlayerSeekStep       = "player.seek_step"
	PlayerTickIntervalMs = "player.tick_interval_ms"
	PlayerInhibitSuspend = "player.inhibit_suspend"
)

// Terminal Display - these keys define the playlist rendering behavior.
const (
	DisplayAlbumHeaders = "display.album_headers"
)

// Iconography - these keys manage the visual rendering of transport symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
