package solution

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style paths to forward slash format
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}

	// UNC paths keep their leading double slash
	isUNC := strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")

	normalized := strings.ReplaceAll(path, "\\", "/")
	if isUNC {
		normalized = strings.TrimLeft(normalized, "/")
	}
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	if isUNC {
		normalized = "//" + normalized
	}

	return normalized
}

// ConvertToSystemPath converts a path to the current OS format
func ConvertToSystemPath(path string) string {
	return filepath.FromSlash(NormalizePath(path))
}

// ResolveProjectPath resolves a project path from a solution file
func ResolveProjectPath(solutionDir, projectPath string) string {
	if projectPath == "" {
		return ""
	}

	normalized := ConvertToSystemPath(projectPath)
	if filepath.IsAbs(normalized) {
		return filepath.Clean(normalized)
	}

	return filepath.Clean(filepath.Join(solutionDir, normalized))
}
