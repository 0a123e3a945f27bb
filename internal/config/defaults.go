package config

const (
	defaultStagingDir         = "~/.local/share/dubber/staging"
	defaultOutputDir          = "~/.local/share/dubber/output"
	defaultLogDir             = "~/.local/share/dubber/logs"
	defaultAPIBind            = "127.0.0.1:7319"
	defaultPrototypesPath     = "~/.config/dubber/prototypes.json"
	defaultEmbeddingDim       = 512
	defaultSynthesisWorkers   = 1
	defaultRequestTimeout     = 120
	defaultTTSModel           = "eleven_multilingual_v2"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Services: Services{
			RequestTimeout: defaultRequestTimeout,
			TTSModel:       defaultTTSModel,
		},
		Casting: Casting{
			PrototypesPath: defaultPrototypesPath,
			EmbeddingDim:   defaultEmbeddingDim,
		},
		Synthesis: Synthesis{
			Workers: defaultSynthesisWorkers,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
