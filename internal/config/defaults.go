package config

const (
	defaultConfigPath         = "~/.config/subtitlecat/config.toml"
	defaultStateDir           = "~/.local/share/subtitlecat"
	defaultLogDir             = "~/.local/share/subtitlecat/logs"
	defaultAPIKeysFile        = "~/.config/subtitlecat/api_keys.json"
	defaultHistoryDBName      = "history.db"
	defaultFFprobe            = "ffprobe"
	defaultFFmpeg             = "ffmpeg"
	defaultToolTimeoutSeconds = 600
	defaultTargetLanguage     = "Chinese"
	defaultGeminiModel        = "gemini-2.5-flash"
	defaultBatchSize          = 40
	defaultRequestTimeout     = 120
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDisplayLines       = 500
	defaultDrainIntervalMS    = 50
	defaultDrainBatch         = 10
)

var (
	defaultVideoExtensions    = []string{".mp4", ".mkv"}
	defaultSubtitleExtensions = []string{".srt"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
			APIKeysFile: defaultAPIKeysFile,
		},
		Tools: Tools{
			FFprobe:        defaultFFprobe,
			FFmpeg:         defaultFFmpeg,
			TimeoutSeconds: defaultToolTimeoutSeconds,
		},
		Library: Library{
			VideoExtensions:    append([]string(nil), defaultVideoExtensions...),
			SubtitleExtensions: append([]string(nil), defaultSubtitleExtensions...),
		},
		Languages: Languages{
			Target: defaultTargetLanguage,
		},
		Translation: Translation{
			Model:                 defaultGeminiModel,
			BatchSize:             defaultBatchSize,
			RequestTimeoutSeconds: defaultRequestTimeout,
			SkipExisting:          true,
			DropAds:               true,
		},
		Logging: Logging{
			Format:       defaultLogFormat,
			Level:        defaultLogLevel,
			DisplayLines: defaultDisplayLines,
			File:         true,
		},
		Session: Session{
			DrainIntervalMS: defaultDrainIntervalMS,
			DrainBatch:      defaultDrainBatch,
		},
		History: History{
			Enabled: true,
		},
	}
}
