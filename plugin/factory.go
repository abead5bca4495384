package plugin

// Factory builds and manages the lifecycle of one kind of pluggable
// dependency a Link's process needs to run: today that is almost always a
// transport adapter producing a net.Connector for a Link to sit on (the
// Connector type, whose only factory here is MemoryConnectorFactory), but the registry is open to other plugin kinds (a DB
// driver behind a permission catalog, say) under their own Type.
//
// Lifecycle methods:
//   - Setup: build a plugin instance from its config block
//   - Destroy: release whatever the instance holds (sockets, goroutines, files)
//   - Reload: apply new config to an existing instance, when cheaper than Destroy+Setup
//   - CanDelete: report whether Destroy is currently safe (no Link depending on it)
//
// Thread-safety: Factory implementations must be thread-safe for concurrent Setup/Destroy calls.
type Factory interface {
	// Type returns the plugin type (e.g. Connector, for a transport adapter)
	Type() Type

	// Name returns the factory name (e.g. "memory", "tcp", "ws")
	Name() string

	// Setup initializes a new plugin instance with the given configuration.
	// Returns the plugin instance or error if initialization fails.
	// Thread-safe: can be called concurrently for different instances.
	Setup(v map[string]any) (Plugin, error)

	// Destroy cleans up plugin resources (connections, file handles, goroutines, etc.).
	// The second parameter is reserved for future use (e.g., graceful shutdown timeout).
	// Thread-safe: can be called concurrently for different instances.
	Destroy(Plugin, any) error

	// Reload hot reloads the plugin with new configuration.
	// Returns error if hot reload is not supported or fails.
	// Thread-safe: must handle concurrent access to plugin state.
	Reload(Plugin, map[string]any) error

	// CanDelete checks if the plugin can be safely deleted.
	// Returns false if plugin is processing critical tasks (e.g., active connections, pending writes).
	// Thread-safe: must be safe to call during plugin operation.
	CanDelete(Plugin) bool
}

var (
	// _factoryMap stores all registered plugin factories.
	// Key format: "<plugin_type>_<factory_name>" (e.g., "connector_memory", "connector_tcp")
	// Protected by _pluginLock in plugin.go for thread-safe access.
	_factoryMap = make(map[string]Factory)
)
