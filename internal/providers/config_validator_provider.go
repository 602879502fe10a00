package providers

import (
	"errors"
	"fmt"
	"vivafit/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	switch c.conf.Storage.Driver {
	case "file":
		if c.conf.Storage.FilePath == "" {
			return errors.New("invalid config: storage.filePath is required for the file driver")
		}
	case "sqlite":
		if c.conf.Storage.SQLitePath == "" {
			return errors.New("invalid config: storage.sqlitePath is required for the sqlite driver")
		}
	}

	if c.conf.Remote.Enabled && c.conf.Remote.DSN == "" {
		return errors.New("invalid config: remote.dsn is required when remote is enabled")
	}
	return nil
}
