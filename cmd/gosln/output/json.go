package output

import (
	"time"
)

// JSON output types matching the schema contract

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// SectionListOutput represents the JSON output for section list command
type SectionListOutput struct {
	SchemaVersion string        `json:"schemaVersion"`
	Solution      string        `json:"solution"`
	Sections      []SectionInfo `json:"sections"`
	ElapsedMs     int64         `json:"elapsedMs"`
}

// SectionInfo describes one GlobalSection or ProjectSection
type SectionInfo struct {
	// Scope is "Global" or the owning project's name
	Scope   string      `json:"scope"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Entries []EntryInfo `json:"entries"`
}

// EntryInfo is one key/value line of a section
type EntryInfo struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProjectInfoOutput represents the JSON output for project info and project new
type ProjectInfoOutput struct {
	SchemaVersion        string                 `json:"schemaVersion"`
	Name                 string                 `json:"name"`
	FileName             string                 `json:"fileName"`
	GUID                 string                 `json:"guid"`
	TypeGUID             string                 `json:"typeGuid,omitempty"`
	ActiveConfiguration  string                 `json:"activeConfiguration"`
	RootNamespace        *string                `json:"rootNamespace,omitempty"`
	TargetFramework      string                 `json:"targetFramework,omitempty"`
	InitializeTypeSystem *bool                  `json:"initializeTypeSystem,omitempty"`
	Configurations       []ConfigurationMapping `json:"configurations,omitempty"`
	Sections             []SectionInfo          `json:"sections,omitempty"`
	ElapsedMs            int64                  `json:"elapsedMs"`
}

// ConfigurationMapping is one solution-to-project configuration row
type ConfigurationMapping struct {
	Solution string `json:"solution"`
	Project  string `json:"project"`
	Build    bool   `json:"build"`
	Deploy   bool   `json:"deploy"`
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// NewSectionListOutput creates a new SectionListOutput with schema version
func NewSectionListOutput(solutionPath string) *SectionListOutput {
	return &SectionListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Solution:      solutionPath,
		Sections:      []SectionInfo{},
	}
}
