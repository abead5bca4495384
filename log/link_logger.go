package log

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// LinkLogger is a GameLogger that tags every entry with the ID of the Link
// it belongs to, and can optionally duplicate output to a per-Link log file.
// It is meant for a role process that holds many Links at once (a
// controller with one Link per connected host or control client): the
// per-Link file and whitelist bypass let an operator turn on verbose
// logging for one troublesome Link without raising the level globally.
type LinkLogger struct {
	*GameLogger
	linkID      uint64
	inWhiteList bool
}

// NewLinkLogger builds a LinkLogger for linkID. It always writes to the
// shared log file and, when cfg.LinkFileLog is set, also writes to a
// linkID-suffixed file of its own.
func NewLinkLogger(cfg *LogCfg, linkID uint64) *LinkLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}

	logger := &GameLogger{
		minLevel:          cfg.LogLevel,
		callerSkip:        cfg.CallerSkip,
		levelChange:       newLevelChange(cfg.LevelChange),
		enabledCallerInfo: cfg.EnabledCallerInfo,
	}

	linkLogger := &LinkLogger{
		GameLogger:  logger,
		linkID:      linkID,
		inWhiteList: cfg.IsInWhiteList(linkID),
	}

	logger.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(logger)
		},
	}

	if cfg.ConsoleAppender {
		logger.AddAppender(NewConsoleAppender())
	}

	if cfg.FileAppender {
		logger.AddAppender(NewFileAppender(cfg, logger))
	}

	if cfg.LinkFileLog {
		linkCfgCopy := *cfg
		ext := filepath.Ext(linkCfgCopy.LogPath)
		base := strings.TrimSuffix(linkCfgCopy.LogPath, ext)
		linkCfgCopy.LogPath = fmt.Sprintf("%s_%d%s", base, linkID, ext)

		linkLogger.AddAppender(NewFileAppender(&linkCfgCopy, linkLogger))
	}

	return linkLogger
}

// log stamps every entry with the owning link's ID.
func (x *LinkLogger) log(level Level) *LogEvent {
	logEvent := x.GameLogger.log(level)
	if logEvent == nil {
		return nil
	}

	return logEvent.Uint64("link", x.linkID)
}

// IgnoreCheckLevel reports whether this Link is whitelisted for unrestricted
// logging regardless of the configured minimum level.
func (x *LinkLogger) IgnoreCheckLevel() bool {
	return x.inWhiteList
}

func (x *LinkLogger) Debug() *LogEvent { return x.log(DebugLevel) }
func (x *LinkLogger) Info() *LogEvent  { return x.log(InfoLevel) }
func (x *LinkLogger) Warn() *LogEvent  { return x.log(WarnLevel) }
func (x *LinkLogger) Error() *LogEvent { return x.log(ErrorLevel) }
func (x *LinkLogger) Fatal() *LogEvent { return x.log(FatalLevel) }
