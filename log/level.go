package log

import "fmt"

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LevelChangeEntry overrides the minimum log level at a single file/line, so
// an operator can turn up verbosity around one trouble spot without lowering
// the global minimum level for every other caller.
type LevelChangeEntry struct {
	FileName string `mapstructure:"fileName"`
	LineNum  int    `mapstructure:"lineNum"`
	LogLevel int    `mapstructure:"logLevel"`
}

// levelChange indexes a LogCfg's LevelChange entries for O(1) lookup keyed
// by file:line during the hot logging path.
type levelChange struct {
	entries map[string]Level
}

func newLevelChange(entries []LevelChangeEntry) *levelChange {
	lc := &levelChange{entries: make(map[string]Level, len(entries))}
	for _, e := range entries {
		lc.entries[levelChangeKey(e.FileName, e.LineNum)] = Level(e.LogLevel)
	}
	return lc
}

func levelChangeKey(file string, line int) string {
	return fmt.Sprintf("%s:%d", file, line)
}

func (lc *levelChange) Empty() bool {
	return lc == nil || len(lc.entries) == 0
}

// GetLevel returns the overridden level for file:line, or fallback if no
// override applies there.
func (lc *levelChange) GetLevel(file string, line int, fallback Level) Level {
	if lc == nil {
		return fallback
	}
	if lv, ok := lc.entries[levelChangeKey(file, line)]; ok {
		return lv
	}
	return fallback
}
