package config

import "time"

// Settings is the top-level YAML structure of the service settings file.
type Settings struct {
	HTTP     HTTPConf     `yaml:"http"`
	Log      LogConf      `yaml:"log"`
	Secret   SecretConf   `yaml:"secret"`
	Scaffold ScaffoldConf `yaml:"scaffold"`
}

// HTTPConf holds listener and upload settings.
type HTTPConf struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
}

func (c HTTPConf) ReadTimeout() time.Duration  { return time.Duration(c.ReadTimeoutMs) * time.Millisecond }
func (c HTTPConf) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutMs) * time.Millisecond }

// LogConf selects the slog level: debug, info, warn or error.
type LogConf struct {
	Level string `yaml:"level"`
}

// SecretConf locates the form-signing key file.
type SecretConf struct {
	Path string `yaml:"path"`
}

// ScaffoldConf tunes the plugin scaffolder.
type ScaffoldConf struct {
	BungeeCordAPIVersion string `yaml:"bungeecord_api_version"`
}
