package config

import "sync"

var (
	instanceMu   sync.Mutex
	instance     ConfigManager
	testInstance ConfigManager
)

// GetInstance returns the process-wide ConfigManager, creating it lazily on
// first use. Every package that calls GetInstance shares the same manager,
// and therefore the same set of loaded documents and change listeners.
func GetInstance() ConfigManager {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if testInstance != nil {
		return testInstance
	}
	if instance == nil {
		instance = NewConfigManager()
	}
	return instance
}

// SetInstanceForTesting overrides GetInstance's result for the duration of a
// test. Pair with ResetInstance so later tests don't inherit the override.
func SetInstanceForTesting(cm ConfigManager) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	testInstance = cm
}

// ResetInstance clears both the lazily created singleton and any testing
// override, so the next GetInstance call builds a fresh ConfigManager.
func ResetInstance() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
	testInstance = nil
}
