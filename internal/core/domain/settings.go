package domain

// Configuration keys, in dot-notation.
const (
	KeyTranscriptsDir         = "paths.transcripts"
	KeyOutputDir              = "paths.output"
	KeyStoreEnabled           = "storage.enabled"
	KeyFilterMinChars         = "filter.min_chars"
	KeyFilterMinSentences     = "filter.min_sentences"
	KeyFilterMaxSentences     = "filter.max_sentences"
	KeyFilterShortHostChars   = "filter.short_host_chars"
	KeyFilterMaxQuestionMarks = "filter.max_question_marks"
	KeyFilterMaxGlueHits      = "filter.max_glue_hits"
	KeyFilterHosts            = "filter.hosts"
	KeyFilterBoilerplate      = "filter.boilerplate_phrases"
	KeyFilterGlue             = "filter.glue_phrases"
)

// Default paths, relative to the working directory.
const (
	DefaultTranscriptsDir = "episodes"
	DefaultOutputDir      = "output"
)

// AppSettings holds the resolved application configuration.
type AppSettings struct {
	// TranscriptsDir is the root of the transcript source.
	TranscriptsDir string

	// OutputDir receives cleaned text and chunk documents.
	OutputDir string

	// StoreEnabled records runs in the metadata store.
	StoreEnabled bool

	// Filter holds the quality filter tunables.
	Filter FilterConfig
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		TranscriptsDir: DefaultTranscriptsDir,
		OutputDir:      DefaultOutputDir,
		StoreEnabled:   true,
		Filter:         DefaultFilterConfig(),
	}
}

// SettingKeys returns every recognised configuration key.
func SettingKeys() []string {
	return []string{
		KeyTranscriptsDir,
		KeyOutputDir,
		KeyStoreEnabled,
		KeyFilterMinChars,
		KeyFilterMinSentences,
		KeyFilterMaxSentences,
		KeyFilterShortHostChars,
		KeyFilterMaxQuestionMarks,
		KeyFilterMaxGlueHits,
		KeyFilterHosts,
		KeyFilterBoilerplate,
		KeyFilterGlue,
	}
}
