package frameworks

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		tfm           string
		wantFramework string
		wantVersion   string
		wantPlatform  string
		wantErr       bool
	}{
		// .NET 5+ (maps to .NETCoreApp)
		{"net10.0", "net10.0", NETCoreApp, "10.0", "", false},
		{"net8.0", "net8.0", NETCoreApp, "8.0", "", false},
		{"net5.0", "net5.0", NETCoreApp, "5.0", "", false},
		{"upper case", "NET8.0", NETCoreApp, "8.0", "", false},

		// .NET Standard and .NET Core
		{"netstandard2.1", "netstandard2.1", NETStandard, "2.1", "", false},
		{"netstandard2.0", "netstandard2.0", NETStandard, "2.0", "", false},
		{"netcoreapp3.1", "netcoreapp3.1", NETCoreApp, "3.1", "", false},

		// .NET Framework
		{"net481", "net481", NETFramework, "4.8.1", "", false},
		{"net48", "net48", NETFramework, "4.8", "", false},
		{"net472", "net472", NETFramework, "4.7.2", "", false},
		{"net20", "net20", NETFramework, "2.0", "", false},
		{"netframework4.8", "netframework4.8", NETFramework, "4.8", "", false},

		// Platform-specific (.NET 5+)
		{"net8.0-windows", "net8.0-windows", NETCoreApp, "8.0", "windows", false},
		{"net6.0-android31.0", "net6.0-android31.0", NETCoreApp, "6.0", "android", false},

		// Errors
		{"empty", "", "", "", "", true},
		{"whitespace", "   ", "", "", "", true},
		{"invalid", "invalid", "", "", "", true},
		{"missing version", "netstandard", "", "", "", true},
		{"bad compact", "net4", "", "", "", true},
		{"bad component", "net8.x", "", "", "", true},
		{"platform before net5", "net48-windows", "", "", "", true},
		{"platform without name", "net8.0-10.0", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tfm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.tfm, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if got.Identifier != tt.wantFramework {
				t.Errorf("Identifier = %v, want %v", got.Identifier, tt.wantFramework)
			}
			if got.Version.String() != tt.wantVersion {
				t.Errorf("Version = %v, want %v", got.Version, tt.wantVersion)
			}
			if got.Platform != tt.wantPlatform {
				t.Errorf("Platform = %v, want %v", got.Platform, tt.wantPlatform)
			}
		})
	}
}

func TestTargetFramework_ShortName(t *testing.T) {
	tests := []struct {
		tfm  string
		want string
	}{
		{"net8.0", "net8.0"},
		{"NET8.0-Windows", "net8.0-windows"},
		{"net6.0-android31.0", "net6.0-android31.0"},
		{"netframework4.7.2", "net472"},
		{"net48", "net48"},
		{"netstandard2.0", "netstandard2.0"},
		{"netcoreapp3.1", "netcoreapp3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.tfm, func(t *testing.T) {
			tf := MustParse(tt.tfm)
			if got := tf.ShortName(); got != tt.want {
				t.Errorf("ShortName() = %v, want %v", got, tt.want)
			}
			if got := tf.String(); got != tt.tfm {
				t.Errorf("String() = %v, want the original moniker %v", got, tt.tfm)
			}
		})
	}
}

func TestTargetFramework_TargetFrameworkVersion(t *testing.T) {
	if got := MustParse("net48").TargetFrameworkVersion(); got != "v4.8" {
		t.Errorf("TargetFrameworkVersion() = %v, want v4.8", got)
	}
	if got := MustParse("net8.0").TargetFrameworkVersion(); got != "v8.0" {
		t.Errorf("TargetFrameworkVersion() = %v, want v8.0", got)
	}
}

func TestTargetFramework_Equals(t *testing.T) {
	a := MustParse("net8.0-windows")
	b := MustParse("NET8.0-WINDOWS")
	c := MustParse("net8.0")

	if !a.Equals(b) {
		t.Error("expected case-insensitive monikers to be equal")
	}
	if a.Equals(c) {
		t.Error("expected platform to distinguish frameworks")
	}
	if a.Equals(nil) {
		t.Error("expected nil to differ from a parsed framework")
	}

	var none *TargetFramework
	if !none.Equals(nil) {
		t.Error("expected two nil frameworks to be equal")
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{Version{Major: 4, Minor: 8}, Version{Major: 4, Minor: 8}, 0},
		{Version{Major: 4, Minor: 7, Build: 2}, Version{Major: 4, Minor: 8}, -1},
		{Version{Major: 8}, Version{Major: 6}, 1},
		{Version{Major: 1, Revision: 1}, Version{Major: 1}, 1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on an invalid moniker")
		}
	}()
	MustParse("bogus")
}
