package nisar

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config carries the tunables applied when opening containers. Values come
// from built-in defaults, NISAR_* environment variables, and an optional
// config file named by NISAR_DRIVER_CONFIG.
type Config struct {
	// ChunkCacheSizeMB is the per-object chunk cache, in MiB.
	ChunkCacheSizeMB int
	// PageBufferTargetMB is the remote I/O buffer target, in MiB. The
	// actual buffer is rounded up to a multiple of the file's page size.
	PageBufferTargetMB int
	// DefaultPageSize is assumed when a file does not report one.
	DefaultPageSize uint64
}

func LoadConfig() *Config {
	v := viper.New()
	v.SetDefault("chunk_cache_size_mb", 512)
	v.SetDefault("page_buffer_target_mb", 16)
	v.SetDefault("default_page_size", 4096)
	v.SetEnvPrefix("nisar")
	v.AutomaticEnv()

	if path := os.Getenv("NISAR_DRIVER_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("nisar: cannot read config file %s: %v", path, err)
		}
	}

	cfg := &Config{
		ChunkCacheSizeMB:   v.GetInt("chunk_cache_size_mb"),
		PageBufferTargetMB: v.GetInt("page_buffer_target_mb"),
		DefaultPageSize:    v.GetUint64("default_page_size"),
	}
	if cfg.ChunkCacheSizeMB <= 0 {
		cfg.ChunkCacheSizeMB = 512
	}
	if cfg.PageBufferTargetMB <= 0 {
		cfg.PageBufferTargetMB = 16
	}
	if cfg.DefaultPageSize == 0 {
		cfg.DefaultPageSize = 4096
	}
	return cfg
}
