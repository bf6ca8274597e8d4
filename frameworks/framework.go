// Package frameworks parses Target Framework Monikers (TFMs) such as
// "net8.0", "netstandard2.0" or "net48" into the target framework a new
// project is created for.
//
// Example:
//
//	tf, err := frameworks.Parse("net8.0-windows")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tf.Identifier, tf.Version, tf.Platform) // .NETCoreApp 8.0 windows
package frameworks

import (
	"fmt"
	"strconv"
	"strings"
)

// Framework identifiers
const (
	NETFramework = ".NETFramework"
	NETStandard  = ".NETStandard"
	NETCoreApp   = ".NETCoreApp"
)

// TargetFramework is a parsed Target Framework Moniker.
type TargetFramework struct {
	// Identifier is the framework identifier (e.g., ".NETCoreApp", ".NETFramework")
	Identifier string

	// Version is the framework version
	Version Version

	// Platform is the OS platform of a .NET 5+ TFM (e.g., "windows", "android")
	Platform string

	// PlatformVersion is the platform version, if any
	PlatformVersion Version

	// moniker preserves the original TFM string
	moniker string
}

// Version represents a framework version number.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String returns the version with trailing zero components trimmed,
// always keeping the minor component: 4.7.2.0 -> "4.7.2", 8.0.0.0 -> "8.0".
func (v Version) String() string {
	switch {
	case v.Revision > 0:
		return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
	case v.Build > 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	default:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
}

// IsEmpty returns true if the version is 0.0.0.0.
func (v Version) IsEmpty() bool {
	return v == Version{}
}

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than other.
func (v Version) Compare(other Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{other.Major, other.Minor, other.Build, other.Revision}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// String returns the moniker the framework was parsed from, or its
// normalized short form.
func (tf *TargetFramework) String() string {
	if tf.moniker != "" {
		return tf.moniker
	}
	return tf.ShortName()
}

// ShortName returns the normalized TFM ("net8.0", "net48", "netstandard2.0").
func (tf *TargetFramework) ShortName() string {
	var sb strings.Builder
	switch tf.Identifier {
	case NETFramework:
		sb.WriteString("net")
		sb.WriteString(strings.ReplaceAll(tf.Version.String(), ".", ""))
	case NETStandard:
		sb.WriteString("netstandard")
		sb.WriteString(tf.Version.String())
	case NETCoreApp:
		if tf.IsNet5Era() {
			sb.WriteString("net")
		} else {
			sb.WriteString("netcoreapp")
		}
		sb.WriteString(tf.Version.String())
	default:
		sb.WriteString(strings.ToLower(tf.Identifier))
	}
	if tf.Platform != "" {
		sb.WriteString("-")
		sb.WriteString(strings.ToLower(tf.Platform))
		if !tf.PlatformVersion.IsEmpty() {
			sb.WriteString(tf.PlatformVersion.String())
		}
	}
	return sb.String()
}

// IsNet5Era returns true for .NET 5 and later.
func (tf *TargetFramework) IsNet5Era() bool {
	return tf.Identifier == NETCoreApp && tf.Version.Major >= 5
}

// TargetFrameworkVersion returns the MSBuild TargetFrameworkVersion
// property value, e.g. "v4.8" or "v8.0".
func (tf *TargetFramework) TargetFrameworkVersion() string {
	return "v" + tf.Version.String()
}

// Equals checks if two frameworks are equal.
func (tf *TargetFramework) Equals(other *TargetFramework) bool {
	if tf == nil || other == nil {
		return tf == other
	}
	return tf.Identifier == other.Identifier &&
		tf.Version.Compare(other.Version) == 0 &&
		strings.EqualFold(tf.Platform, other.Platform) &&
		tf.PlatformVersion.Compare(other.PlatformVersion) == 0
}

// Parse parses a TFM string.
//
// Supported formats:
//
//	net8.0           - .NET 8.0 (.NETCoreApp)
//	net6.0-windows   - .NET 6.0 for Windows
//	netstandard2.1   - .NET Standard 2.1
//	netcoreapp3.1    - .NET Core 3.1
//	net48, net472    - .NET Framework 4.8, 4.7.2 (compact form)
//	netframework4.8  - .NET Framework 4.8
func Parse(tfm string) (*TargetFramework, error) {
	tfm = strings.TrimSpace(tfm)
	if tfm == "" {
		return nil, fmt.Errorf("framework string cannot be empty")
	}

	tf := &TargetFramework{moniker: tfm}

	frameworkPart, platformPart, hasPlatform := strings.Cut(strings.ToLower(tfm), "-")
	if err := parseIdentifier(tf, frameworkPart); err != nil {
		return nil, err
	}
	if hasPlatform {
		if !tf.IsNet5Era() {
			return nil, fmt.Errorf("platform %q requires net5.0 or later: %s", platformPart, tfm)
		}
		if err := parsePlatform(tf, platformPart); err != nil {
			return nil, err
		}
	}

	return tf, nil
}

// MustParse is like Parse but panics on error.
func MustParse(tfm string) *TargetFramework {
	tf, err := Parse(tfm)
	if err != nil {
		panic(err)
	}
	return tf
}

func parseIdentifier(tf *TargetFramework, s string) error {
	// Longest prefixes first so "netstandard" is not read as "net"
	prefixes := []struct {
		prefix     string
		identifier string
	}{
		{"netframework", NETFramework},
		{"netstandard", NETStandard},
		{"netcoreapp", NETCoreApp},
		{"net", ""},
	}

	for _, p := range prefixes {
		versionPart, ok := strings.CutPrefix(s, p.prefix)
		if !ok {
			continue
		}
		if versionPart == "" {
			return fmt.Errorf("missing version for framework %s", p.prefix)
		}

		if p.prefix != "net" {
			v, err := parseVersion(versionPart)
			if err != nil {
				return fmt.Errorf("invalid version for %s: %w", p.prefix, err)
			}
			tf.Identifier = p.identifier
			tf.Version = v
			return nil
		}

		// "net" is .NET Framework in compact form (net48) and .NET 5+ otherwise
		var (
			v   Version
			err error
		)
		if !strings.Contains(versionPart, ".") {
			v, err = parseCompactVersion(versionPart)
		} else {
			v, err = parseVersion(versionPart)
		}
		if err != nil {
			return fmt.Errorf("invalid version for net: %w", err)
		}
		tf.Version = v
		if v.Major >= 5 {
			tf.Identifier = NETCoreApp
		} else {
			tf.Identifier = NETFramework
		}
		return nil
	}

	return fmt.Errorf("unknown framework identifier: %s", s)
}

// parseVersion parses a dotted version such as "8.0" or "3.1.2".
func parseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, fmt.Errorf("too many version components: %s", s)
	}

	var nums [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version component: %s", part)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// parseCompactVersion parses .NET Framework versions like "48" -> 4.8 and
// "472" -> 4.7.2. One digit per component, two to four digits.
func parseCompactVersion(s string) (Version, error) {
	if len(s) < 2 || len(s) > 4 {
		return Version{}, fmt.Errorf("invalid compact version: %s", s)
	}

	var nums [4]int
	for i, c := range s {
		if c < '0' || c > '9' {
			return Version{}, fmt.Errorf("invalid compact version: %s", s)
		}
		nums[i] = int(c - '0')
	}

	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// parsePlatform parses "windows", "android31.0", "windows10.0.19041".
func parsePlatform(tf *TargetFramework, s string) error {
	digitIndex := strings.IndexAny(s, "0123456789")
	if digitIndex == -1 {
		tf.Platform = s
		return nil
	}
	if digitIndex == 0 {
		return fmt.Errorf("missing platform name: %s", s)
	}

	tf.Platform = s[:digitIndex]
	v, err := parseVersion(s[digitIndex:])
	if err != nil {
		return fmt.Errorf("invalid platform version: %w", err)
	}
	tf.PlatformVersion = v
	return nil
}
