package config

const (
	defaultDataDir            = "data/processed"
	defaultInputFile          = "cleaned_viewing.csv"
	defaultMetadataFile       = "title_metadata.csv"
	defaultEnrichedFile       = "enriched_viewing.csv"
	defaultOMDbBaseURL        = "https://www.omdbapi.com/"
	defaultOMDbTimeoutSeconds = 10
	defaultOMDbConcurrency    = 4
	defaultOMDbMaxRetries     = 2
	defaultOMDbRateLimit      = 5.0
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			InputFile:    defaultInputFile,
			MetadataFile: defaultMetadataFile,
			EnrichedFile: defaultEnrichedFile,
		},
		OMDb: OMDb{
			BaseURL:            defaultOMDbBaseURL,
			TimeoutSeconds:     defaultOMDbTimeoutSeconds,
			Concurrency:        defaultOMDbConcurrency,
			MaxRetries:         defaultOMDbMaxRetries,
			RateLimitPerSecond: defaultOMDbRateLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
