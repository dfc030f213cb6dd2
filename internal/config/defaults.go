package config

const (
	defaultDatasetsDir      = "datasets"
	defaultPoolDir          = "mixed_wavs"
	defaultListsDir         = "mixed_lists"
	defaultMinTotalSeconds  = 300.0
	defaultLongClipSeconds  = 10.0
	defaultVocoderTag       = "Vatras"
	defaultProbeBackend     = ProbeBackendWAV
	defaultFFprobeBinary    = "ffprobe"
	defaultProbeCachePath   = ".corpusmix/durations.db"
	defaultWorkers          = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultProjectConfigRel = "corpusmix.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetsDir: defaultDatasetsDir,
			PoolDir:     defaultPoolDir,
			ListsDir:    defaultListsDir,
		},
		Corpus: Corpus{
			MinTotalSeconds: defaultMinTotalSeconds,
			LongClipSeconds: defaultLongClipSeconds,
			VocoderTag:      defaultVocoderTag,
		},
		Probe: Probe{
			Backend:       defaultProbeBackend,
			FFprobeBinary: defaultFFprobeBinary,
			CachePath:     defaultProbeCachePath,
		},
		Pipeline: Pipeline{
			Workers:        defaultWorkers,
			CheckFreeSpace: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
