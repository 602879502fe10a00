package persistence

import (
	"fmt"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	"vivafit/internal/structures"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// NewKeyValueStore builds the durable store selected by storage.driver.
func NewKeyValueStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.DurableStoreInterface, error) {
	switch conf.Storage.Driver {
	case DriverSQLite:
		logger.Infof(providers.TypeApp, "Using sqlite key-value store at %s", conf.Storage.SQLitePath)
		// sqlite stores values uncompressed
		compressor.Close()
		return OpenSQLiteStore(conf.Storage.SQLitePath)
	case DriverFile, "":
		logger.Infof(providers.TypeApp, "Using file key-value store at %s", conf.Storage.FilePath)
		return NewFileStore(conf.Storage.FilePath, compressor, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

// AsKeyValueStore narrows the durable store to the plain key-value capability.
func AsKeyValueStore(store interfaces.DurableStoreInterface) interfaces.KeyValueStoreInterface {
	return store
}
