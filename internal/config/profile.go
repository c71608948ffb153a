package config

// Profile holds a named scan configuration loaded from the config file.
// Profiles let recurring investigations (e.g., a quarterly review of a
// portfolio) keep their seeds and bounds in one place.
type Profile struct {
	// Seeds are the company numbers the profile scans.
	Seeds []string `yaml:"seeds,omitempty"`

	// MaxDepth overrides the global depth bound for this profile.
	// If zero, the global MaxDepth is used.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// MaxCompanies overrides the global company cap for this profile.
	// If zero, the global MaxCompanies is used.
	MaxCompanies int `yaml:"maxCompanies,omitempty"`

	// IncludeInactive disables the active-only filter for this profile,
	// following dissolved companies and resigned officers too.
	IncludeInactive bool `yaml:"includeInactive,omitempty"`
}

// File represents the structure of the .signalwatch configuration file.
type File struct {
	// Profiles maps profile names to their scan configurations.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults contains default profile settings applied to all profiles
	// unless overridden in the named profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the configuration for a named profile.
// It merges the named profile with the defaults.
func (cf *File) GetProfile(name string) Profile {
	// Start with defaults
	result := cf.Defaults

	// Override with the named profile if present
	if profile, ok := cf.Profiles[name]; ok {
		if len(profile.Seeds) > 0 {
			result.Seeds = profile.Seeds
		}
		if profile.MaxDepth != 0 {
			result.MaxDepth = profile.MaxDepth
		}
		if profile.MaxCompanies != 0 {
			result.MaxCompanies = profile.MaxCompanies
		}
		if profile.IncludeInactive {
			result.IncludeInactive = true
		}
	}

	return result
}
