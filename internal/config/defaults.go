package config

const (
	defaultCacheDir          = "~/.cache/pilesort"
	defaultLogDir            = "~/.local/share/pilesort/logs"
	defaultHashThreshold     = 10
	defaultTimeWindowMinutes = 30
	defaultAlgorithm         = "phash"
	defaultHandleCapacity    = 64
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Matching: Matching{
			HashThreshold:     defaultHashThreshold,
			TimeWindowMinutes: defaultTimeWindowMinutes,
			Algorithm:         defaultAlgorithm,
		},
		Scan: Scan{
			Workers: 0, // resolved to the CPU count at scan time
		},
		Cache: Cache{
			Fingerprints:   true,
			HandleCapacity: defaultHandleCapacity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
