package solution

import (
	"strings"
)

// ConfigurationAndPlatform is a build configuration / platform pair such as
// Debug|Any CPU. Either half may be empty when it is not known.
type ConfigurationAndPlatform struct {
	Configuration string
	Platform      string
}

// NewConfigurationAndPlatform creates a configuration/platform pair.
func NewConfigurationAndPlatform(configuration, platform string) ConfigurationAndPlatform {
	return ConfigurationAndPlatform{Configuration: configuration, Platform: platform}
}

// ParseConfigurationAndPlatform splits "Debug|Any CPU" at the first '|'.
// A string without '|' yields an empty platform.
func ParseConfigurationAndPlatform(s string) ConfigurationAndPlatform {
	configuration, platform, _ := strings.Cut(strings.TrimSpace(s), "|")
	return ConfigurationAndPlatform{
		Configuration: strings.TrimSpace(configuration),
		Platform:      strings.TrimSpace(platform),
	}
}

// IsFullySpecified reports whether both configuration and platform are set.
func (c ConfigurationAndPlatform) IsFullySpecified() bool {
	return c.Configuration != "" && c.Platform != ""
}

// String returns the "Configuration|Platform" form used in solution files.
func (c ConfigurationAndPlatform) String() string {
	return c.Configuration + "|" + c.Platform
}

// ProjectPlatformName converts a solution platform name to the name MSBuild
// projects use ("Any CPU" in solutions is "AnyCPU" in projects).
func ProjectPlatformName(platform string) string {
	if platform == "Any CPU" {
		return "AnyCPU"
	}
	return platform
}

type mappingEntry struct {
	config ConfigurationAndPlatform
	build  bool
	deploy bool
}

// ConfigurationMapping translates solution configurations into project
// configurations for a single project.
type ConfigurationMapping struct {
	entries map[ConfigurationAndPlatform]*mappingEntry
}

// NewConfigurationMapping creates an empty mapping.
func NewConfigurationMapping() *ConfigurationMapping {
	return &ConfigurationMapping{
		entries: make(map[ConfigurationAndPlatform]*mappingEntry),
	}
}

// Len returns the number of solution configurations with an explicit mapping.
func (m *ConfigurationMapping) Len() int {
	return len(m.entries)
}

func (m *ConfigurationMapping) entry(solutionConfig ConfigurationAndPlatform) *mappingEntry {
	e, ok := m.entries[solutionConfig]
	if !ok {
		e = &mappingEntry{
			config: m.defaultProjectConfiguration(solutionConfig),
			build:  true,
		}
		m.entries[solutionConfig] = e
	}
	return e
}

func (m *ConfigurationMapping) defaultProjectConfiguration(solutionConfig ConfigurationAndPlatform) ConfigurationAndPlatform {
	return ConfigurationAndPlatform{
		Configuration: solutionConfig.Configuration,
		Platform:      ProjectPlatformName(solutionConfig.Platform),
	}
}

// GetProjectConfiguration returns the project configuration used when the
// solution is built in solutionConfig. Unmapped configurations map to
// themselves, with the platform converted by ProjectPlatformName.
func (m *ConfigurationMapping) GetProjectConfiguration(solutionConfig ConfigurationAndPlatform) ConfigurationAndPlatform {
	if e, ok := m.entries[solutionConfig]; ok {
		return e.config
	}
	return m.defaultProjectConfiguration(solutionConfig)
}

// SetProjectConfiguration maps solutionConfig to projectConfig.
func (m *ConfigurationMapping) SetProjectConfiguration(solutionConfig, projectConfig ConfigurationAndPlatform) {
	m.entry(solutionConfig).config = projectConfig
}

// IsBuild reports whether the project is built in solutionConfig (default true).
func (m *ConfigurationMapping) IsBuild(solutionConfig ConfigurationAndPlatform) bool {
	if e, ok := m.entries[solutionConfig]; ok {
		return e.build
	}
	return true
}

// SetBuild sets whether the project is built in solutionConfig.
func (m *ConfigurationMapping) SetBuild(solutionConfig ConfigurationAndPlatform, build bool) {
	m.entry(solutionConfig).build = build
}

// IsDeploy reports whether the project is deployed in solutionConfig (default false).
func (m *ConfigurationMapping) IsDeploy(solutionConfig ConfigurationAndPlatform) bool {
	if e, ok := m.entries[solutionConfig]; ok {
		return e.deploy
	}
	return false
}

// SetDeploy sets whether the project is deployed in solutionConfig.
func (m *ConfigurationMapping) SetDeploy(solutionConfig ConfigurationAndPlatform, deploy bool) {
	m.entry(solutionConfig).deploy = deploy
}

// LoadFrom reads the entries for projectGUID out of a
// GlobalSection(ProjectConfigurationPlatforms) section:
//
//	{GUID}.Debug|Any CPU.ActiveCfg = Debug|Any CPU
//	{GUID}.Debug|Any CPU.Build.0 = Debug|Any CPU
//	{GUID}.Debug|Any CPU.Deploy.0 = Debug|Any CPU
//
// A solution configuration that has an ActiveCfg entry but no Build.0 entry
// is not built. GUIDs are compared case-insensitively and "Any CPU" project
// platforms become "AnyCPU".
func (m *ConfigurationMapping) LoadFrom(projectGUID string, s *Section) {
	prefix := strings.ToUpper(projectGUID) + "."
	seen := make(map[ConfigurationAndPlatform]bool)
	built := make(map[ConfigurationAndPlatform]bool)

	for key, value := range s.All() {
		if len(key) < len(prefix) || strings.ToUpper(key[:len(prefix)]) != prefix {
			continue
		}
		rest := key[len(prefix):]
		switch {
		case strings.HasSuffix(rest, ".ActiveCfg"):
			solutionConfig := ParseConfigurationAndPlatform(strings.TrimSuffix(rest, ".ActiveCfg"))
			projectConfig := ParseConfigurationAndPlatform(value)
			projectConfig.Platform = ProjectPlatformName(projectConfig.Platform)
			m.SetProjectConfiguration(solutionConfig, projectConfig)
			seen[solutionConfig] = true
		case strings.HasSuffix(rest, ".Build.0"):
			built[ParseConfigurationAndPlatform(strings.TrimSuffix(rest, ".Build.0"))] = true
		case strings.HasSuffix(rest, ".Deploy.0"):
			m.SetDeploy(ParseConfigurationAndPlatform(strings.TrimSuffix(rest, ".Deploy.0")), true)
		}
	}

	for solutionConfig := range seen {
		m.SetBuild(solutionConfig, built[solutionConfig])
	}
}
