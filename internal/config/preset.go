package config

// Preset holds fetch settings applied when a run's search term matches.
// This allows pinning per-topic behavior in a config file, such as a
// larger page budget for broad topics or a different language edition.
type Preset struct {
	// Mode overrides the execution mode for this term.
	// Accepts the same values as the --mode CLI flag ("seq", "threads",
	// "procs"). If empty, the global mode is used.
	Mode string `yaml:"mode,omitempty"`

	// MaxResults overrides the maximum number of page titles taken from
	// the search. If zero, the global MaxResults is used.
	MaxResults int `yaml:"maxResults,omitempty"`

	// MaxWorkers overrides the pool size for the threaded and process
	// modes. If zero, the global MaxWorkers is used.
	MaxWorkers int `yaml:"maxWorkers,omitempty"`

	// OutputDir overrides the directory where reference files are written.
	// If empty, the global OutputDir is used.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Language overrides the Wikipedia language edition for this term.
	// If empty, the global Language is used.
	Language string `yaml:"language,omitempty"`

	// APIURL overrides the full MediaWiki API endpoint for this term,
	// taking precedence over Language. If empty, the global endpoint
	// is used.
	APIURL string `yaml:"apiUrl,omitempty"`

	// Proxy overrides the SOCKS5 proxy address ("host:port") for this
	// term. If empty, the global Proxy is used.
	Proxy string `yaml:"proxy,omitempty"`

	// Headers are custom HTTP headers to include in API requests for
	// this term. Useful for private MediaWiki installations that sit
	// behind authenticating proxies.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .wikirefs configuration file.
type File struct {
	// Terms maps search terms to their term-specific presets.
	// Keys are matched against the coerced search term exactly,
	// including case.
	Terms map[string]Preset `yaml:"terms,omitempty"`

	// Defaults contains a preset applied to every run unless overridden
	// in the term-specific preset.
	Defaults Preset `yaml:"defaults,omitempty"`
}

// GetTermPreset returns the preset for a specific search term.
// It merges the term-specific preset with defaults.
func (cf *File) GetTermPreset(term string) Preset {
	// Start with defaults
	result := cf.Defaults

	// Override with term-specific preset if present
	if preset, ok := cf.Terms[term]; ok {
		if preset.Mode != "" {
			result.Mode = preset.Mode
		}
		if preset.MaxResults != 0 {
			result.MaxResults = preset.MaxResults
		}
		if preset.MaxWorkers != 0 {
			result.MaxWorkers = preset.MaxWorkers
		}
		if preset.OutputDir != "" {
			result.OutputDir = preset.OutputDir
		}
		if preset.Language != "" {
			result.Language = preset.Language
		}
		if preset.APIURL != "" {
			result.APIURL = preset.APIURL
		}
		if preset.Proxy != "" {
			result.Proxy = preset.Proxy
		}
		if len(preset.Headers) > 0 {
			// Copy before merging so the shared defaults map stays untouched
			merged := make(map[string]string, len(result.Headers)+len(preset.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range preset.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
	}

	return result
}
