package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int               `toml:"version"`
	Requesters []requesterSchema `toml:"requesters"`
	Banned     []string          `toml:"banned"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported directory schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type requesterSchema struct {
	ID          string `toml:"id"`
	DisplayName string `toml:"display_name"`
	Handle      string `toml:"handle,omitempty"`
	JoinedAt    string `toml:"joined_at"`
}
