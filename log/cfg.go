package log

// LogCfg represents comprehensive logging configuration for high-performance game servers.
// It provides flexible configuration options for both synchronous and asynchronous logging,
// file rotation strategies, and output destinations suitable for production environments.
type LogCfg struct {
	// LogPath specifies the target log file path for file-based logging.
	// Supports relative and absolute paths with automatic directory creation.
	LogPath string `mapstructure:"path"`

	// LogLevel defines the minimum log level for filtering log entries.
	// Supports hot-reload without service restart for dynamic log level adjustment.
	// Valid levels: Trace, Debug, Info, Warn, Error, Fatal.
	LogLevel Level `mapstructure:"level"`

	// FileSplitMB determines the file rotation threshold in megabytes.
	// When log file exceeds this size, automatic rotation creates new files.
	// Supports hot-reload for runtime adjustment of rotation strategy.
	FileSplitMB int `mapstructure:"splitmb"`

	// FileSplitHour, when greater than zero, turns on time-based rotation: the
	// file is rotated on the first write after the wall-clock hour differs from
	// the hour it was opened in. The value itself is not otherwise used.
	FileSplitHour int `mapstructure:"splithour"`

	// IsAsync enables asynchronous log writing to prevent I/O blocking.
	// Recommended for high-throughput game servers to maintain low latency.
	IsAsync bool `mapstructure:"isasync"`

	// AsyncCacheSize limits the maximum buffered log entries in async mode.
	// Prevents memory overflow during traffic spikes or I/O slowdowns.
	// Default: 1024 entries when async mode is enabled.
	AsyncCacheSize int `mapstructure:"asynccachesize"`

	// AsyncWriteMillSec defines the async write interval in milliseconds.
	// Balances between write latency and batch efficiency for optimal performance.
	// Default: 200ms for reasonable trade-off between responsiveness and throughput.
	AsyncWriteMillSec int `mapstructure:"asyncwritemillsec"`

	// LevelChangeMin is loaded from configuration but no logger code reads it;
	// runtime level changes come from LogLevel and LevelChange.
	LevelChangeMin int `mapstructure:"levelchangemin"`

	// CallerSkip specifies the number of stack frames to skip for caller information.
	// Useful for wrapper functions or middleware layers in complex applications.
	CallerSkip int `mapstructure:"callerSkip"`

	// FileAppender enables file-based logging output.
	// Primary logging destination for persistent storage and analysis.
	FileAppender bool `mapstructure:"fileAppender"`

	// ConsoleAppender enables console (stdout) logging output.
	// Convenient for development and containerized environments.
	ConsoleAppender bool `mapstructure:"consoleAppender"`

	// LevelChange enables fine-grained log level control for specific code locations.
	// Allows runtime adjustment of logging verbosity without service restart.
	// Each entry maps a file path and line number to a specific log level.
	// Designed for debugging critical game server components in production.
	LevelChange []LevelChangeEntry `mapstructure:"levelChange"`

	// LinkWhiteList names Link IDs that bypass log level filtering, for
	// targeted debugging of one misbehaving Link without lowering the
	// global level.
	// Supports hot-reload for dynamic addition/removal of debug targets.
	LinkWhiteList []uint64 `mapstructure:"linkWhiteList"`

	// linkWhiteListSet is an internal cache for O(1) whitelist lookups.
	// Populated lazily from LinkWhiteList by the first IsInWhiteList call.
	// Not intended for direct configuration - use LinkWhiteList instead.
	linkWhiteListSet map[uint64]struct{} `mapstructure:"-"`

	// LinkFileLog enables logging to per-Link log files.
	// When enabled, LinkLogger will output to both the original log file and the per-Link file.
	// When disabled, LinkLogger will only output to the original log file.
	LinkFileLog bool `mapstructure:"linkFileLog"`

	EnabledCallerInfo bool `mapstructure:"enabledCallerInfo"`
}

// GetName implements config.Config so a LogCfg can be loaded and hot-reloaded
// through a config.ConfigManager under the fixed document name "logger".
func (cfg *LogCfg) GetName() string {
	return "logger"
}

// Validate implements config.Config. Logging tolerates any field value, so
// there is nothing to reject here.
func (cfg *LogCfg) Validate() error {
	return nil
}

// IsInWhiteList checks if a link ID exists in the whitelist with O(1) complexity.
func (cfg *LogCfg) IsInWhiteList(linkID uint64) bool {
	if len(cfg.linkWhiteListSet) == 0 && len(cfg.LinkWhiteList) != 0 {
		cfg.linkWhiteListSet = make(map[uint64]struct{}, len(cfg.LinkWhiteList))
		for _, id := range cfg.LinkWhiteList {
			cfg.linkWhiteListSet[id] = struct{}{}
		}
	}

	_, exists := cfg.linkWhiteListSet[linkID]
	return exists
}

var _defaultCfg = &LogCfg{
	LogPath:         "./clusterlink.log",
	LogLevel:        DebugLevel, // Default log level
	FileSplitMB:     50,
	FileSplitHour:   0,
	IsAsync:         true,
	CallerSkip:      1,
	FileAppender:    true,
	ConsoleAppender: true,
}

func getDefaultCfg() *LogCfg {
	return _defaultCfg
}
