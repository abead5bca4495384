package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lcx/clusterlink/config"
)

// LogAppender is a log output sink. Every flushed LogEvent is fanned out to
// every appender a GameLogger holds.
type LogAppender interface {
	Write(p []byte) (int, error)
	Refresh()
}

// ConsoleAppender writes every log line to standard output. It is stateless
// and safe for concurrent use.
type ConsoleAppender struct{}

func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

func (c *ConsoleAppender) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (c *ConsoleAppender) Refresh() {}

// FileAppender writes log lines to a file, rotating it once it exceeds
// FileSplitMB, and optionally buffers writes through an async queue so the
// logging call site never blocks on disk I/O. owner is the Logger this
// appender was built for; both constructors store it and no method reads
// it. NewFileAppenderWithConfigManager reconfigures the appender by
// registering the appender itself as a change listener, not through owner.
type FileAppender struct {
	mu            sync.Mutex
	cfg           *LogCfg
	owner         Logger
	configManager config.ConfigManager

	file       *os.File
	size       int64
	openedHour int

	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewFileAppender builds a FileAppender against a fixed configuration
// snapshot; it does not hot-reload.
func NewFileAppender(cfg *LogCfg, owner Logger) *FileAppender {
	if cfg == nil {
		cfg = getDefaultCfg()
	}
	a := &FileAppender{cfg: cfg, owner: owner}
	if err := a.openFile(); err != nil {
		fmt.Printf("log: failed to open %s: %v\n", cfg.LogPath, err)
	}
	a.startAsync()
	return a
}

// NewFileAppenderWithConfigManager builds a FileAppender that reopens its
// file and restarts its async writer whenever the configManager's "logger"
// document changes.
func NewFileAppenderWithConfigManager(cm config.ConfigManager, owner Logger) *FileAppender {
	cfg := getDefaultCfg()
	if cm != nil {
		if c, err := cm.GetConfig("logger"); err == nil {
			if lc, ok := c.(*LogCfg); ok {
				cfg = lc
			}
		}
	}

	a := &FileAppender{cfg: cfg, owner: owner, configManager: cm}
	if err := a.openFile(); err != nil {
		fmt.Printf("log: failed to open %s: %v\n", cfg.LogPath, err)
	}
	a.startAsync()

	if cm != nil {
		cm.AddChangeListener(a)
	}
	return a
}

// openFile must be called with a.mu held, or before the appender is shared
// across goroutines.
func (a *FileAppender) openFile() error {
	if dir := filepath.Dir(a.cfg.LogPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(a.cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	if a.file != nil {
		_ = a.file.Close()
	}
	a.file = f
	a.size = 0
	if info, err := f.Stat(); err == nil {
		a.size = info.Size()
	}
	a.openedHour = time.Now().Hour()
	return nil
}

func (a *FileAppender) startAsync() {
	if !a.cfg.IsAsync {
		return
	}
	size := a.cfg.AsyncCacheSize
	if size <= 0 {
		size = 1024
	}
	a.queue = make(chan []byte, size)
	a.done = make(chan struct{})

	a.wg.Add(1)
	go a.asyncLoop()
}

func (a *FileAppender) asyncLoop() {
	defer a.wg.Done()

	interval := time.Duration(a.cfg.AsyncWriteMillSec) * time.Millisecond
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case p := <-a.queue:
			a.writeSync(p)
		case <-ticker.C:
			a.drainQueue()
		case <-a.done:
			a.drainQueue()
			return
		}
	}
}

func (a *FileAppender) drainQueue() {
	for {
		select {
		case p := <-a.queue:
			a.writeSync(p)
		default:
			return
		}
	}
}

// Write queues p for the async writer when IsAsync is set, falling back to
// a synchronous write if the queue is saturated so no entry is ever
// silently dropped; otherwise it writes p directly.
func (a *FileAppender) Write(p []byte) (int, error) {
	a.mu.Lock()
	async := a.cfg.IsAsync
	a.mu.Unlock()

	if !async {
		return len(p), a.writeSync(p)
	}

	buf := append([]byte(nil), p...)
	select {
	case a.queue <- buf:
	default:
		return len(p), a.writeSync(buf)
	}
	return len(p), nil
}

func (a *FileAppender) writeSync(p []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		if err := a.openFile(); err != nil {
			return err
		}
	}
	if a.needsRotation(len(p)) {
		if err := a.rotateLocked(); err != nil {
			fmt.Printf("log: rotate %s failed: %v\n", a.cfg.LogPath, err)
		}
	}

	n, err := a.file.Write(p)
	a.size += int64(n)
	return err
}

// needsRotation must be called with a.mu held.
func (a *FileAppender) needsRotation(n int) bool {
	if a.cfg.FileSplitMB > 0 {
		limit := int64(a.cfg.FileSplitMB) * 1024 * 1024
		if a.size+int64(n) > limit {
			return true
		}
	}
	if a.cfg.FileSplitHour > 0 && time.Now().Hour() != a.openedHour {
		return true
	}
	return false
}

// rotateLocked must be called with a.mu held.
func (a *FileAppender) rotateLocked() error {
	if a.file != nil {
		_ = a.file.Close()
		a.file = nil
	}

	rotated := fmt.Sprintf("%s.%s", a.cfg.LogPath, time.Now().Format("20060102150405.000000000"))
	if err := os.Rename(a.cfg.LogPath, rotated); err != nil {
		return err
	}
	return a.openFile()
}

// Refresh flushes anything sitting in the async queue and syncs the file to
// disk. It does not wait for entries written after it is called.
func (a *FileAppender) Refresh() {
	if a.queue != nil {
		a.drainQueue()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		_ = a.file.Sync()
	}
}

// GetCurrentConfig returns the configuration this appender is currently
// writing with.
func (a *FileAppender) GetCurrentConfig() *LogCfg {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// OnConfigChanged implements config.ConfigChangeListener. A changed LogPath
// reopens the file; a changed IsAsync restarts the async writer.
func (a *FileAppender) OnConfigChanged(configName string, newConfig, oldConfig config.Config) error {
	if configName != "logger" {
		return nil
	}
	lc, ok := newConfig.(*LogCfg)
	if !ok {
		return nil
	}

	a.mu.Lock()
	pathChanged := lc.LogPath != a.cfg.LogPath
	asyncChanged := lc.IsAsync != a.cfg.IsAsync
	a.cfg = lc
	a.mu.Unlock()

	if pathChanged {
		a.mu.Lock()
		err := a.openFile()
		a.mu.Unlock()
		if err != nil {
			return err
		}
	}
	if asyncChanged {
		a.restartAsync()
	}
	return nil
}

func (a *FileAppender) restartAsync() {
	if a.done != nil {
		close(a.done)
		a.wg.Wait()
		a.done = nil
		a.queue = nil
	}
	a.startAsync()
}

// Close stops the async writer, if any, and closes the underlying file.
func (a *FileAppender) Close() error {
	if a.done != nil {
		close(a.done)
		a.wg.Wait()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	return a.file.Close()
}
