package solution

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := NewSlnParser(nil).ParseReader(context.Background(), strings.NewReader(content), "/work/Test.sln")
	require.NoError(t, err)
	return doc
}

func TestSlnParser_CanParse(t *testing.T) {
	parser := NewSlnParser(nil)

	tests := []struct {
		path string
		want bool
	}{
		{"solution.sln", true},
		{"Solution.SLN", true},
		{"My.Solution.sln", true},
		{"solution.slnx", false},
		{"project.csproj", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.CanParse(tt.path))
		})
	}
}

func TestParseFile_Sample(t *testing.T) {
	doc, err := ParseFile(context.Background(), "testdata/sample.sln")
	require.NoError(t, err)
	sol := doc.Solution()

	assert.Equal(t, "12.00", sol.FormatVersion)
	assert.Equal(t, "17.0.31903.59", sol.VisualStudioVersion)
	assert.Equal(t, "10.0.40219.1", sol.MinimumVisualStudioVersion)

	require.Len(t, sol.Projects, 2)
	app := sol.Projects[0]
	assert.Equal(t, "App", app.Name)
	assert.Equal(t, "src/App/App.csproj", app.Path)
	assert.Equal(t, "{11111111-1111-1111-1111-111111111111}", app.GUID)
	assert.True(t, app.IsNETProject())

	deps, ok := app.Section(SectionProjectDependencies)
	require.True(t, ok)
	assert.Equal(t, SectionTypePostProject, deps.Type())
	assert.True(t, deps.ContainsKey("{22222222-2222-2222-2222-222222222222}"))

	lib := sol.Projects[1]
	assert.Equal(t, "{33333333-3333-3333-3333-333333333333}", lib.ParentFolderGUID)

	require.Len(t, sol.SolutionFolders, 1)
	assert.Equal(t, []string{"README.md", ".editorconfig"}, sol.SolutionFolders[0].Items())

	require.Len(t, sol.GlobalSections, 4)
	assert.Equal(t, NewConfigurationAndPlatform("Debug", "Any CPU"), sol.ActiveConfiguration())

	props, ok := doc.GlobalSection("SolutionProperties")
	require.True(t, ok)
	assert.Equal(t, "FALSE", props.Value("HideSolutionNode"))

	assert.Len(t, doc.Sections(), 6)
}

func TestParseFile_NotSln(t *testing.T) {
	_, err := ParseFile(context.Background(), "testdata/sample.slnx")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "not a .sln file")
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.sln"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "cannot open file")
}

func TestDocument_RoundTrip(t *testing.T) {
	original, err := os.ReadFile("testdata/sample.sln")
	require.NoError(t, err)

	doc, err := ParseFile(context.Background(), "testdata/sample.sln")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, string(original), buf.String())
}

func TestDocument_RoundTripPreservesBOMAndCRLF(t *testing.T) {
	content := "\xEF\xBB\xBFMicrosoft Visual Studio Solution File, Format Version 12.00\r\n" +
		"Global\r\n" +
		"\tGlobalSection(SolutionConfigurationPlatforms) = preSolution\r\n" +
		"\t\tDebug|x64 = Debug|x64\r\n" +
		"\tEndGlobalSection\r\n" +
		"EndGlobal\r\n"

	doc := parseString(t, content)
	assert.Equal(t, "12.00", doc.Solution().FormatVersion)
	assert.Equal(t, NewConfigurationAndPlatform("Debug", "x64"), doc.Solution().ActiveConfiguration())
	assert.Equal(t, content, doc.String())
}

func TestDocument_WritesSectionEdits(t *testing.T) {
	doc := parseString(t, `Global
	GlobalSection(ExtensibilityGlobals) = postSolution
		SolutionGuid = {AAAA}
		Key = One
	EndGlobalSection
EndGlobal
`)

	s, ok := doc.GlobalSection("ExtensibilityGlobals")
	require.True(t, ok)
	require.NoError(t, s.Set("SolutionGuid", "{BBBB}"))
	require.NoError(t, s.Add("Key", "Two"))

	assert.Equal(t, `Global
	GlobalSection(ExtensibilityGlobals) = postSolution
		SolutionGuid = {BBBB}
		Key = One
		Key = Two
	EndGlobalSection
EndGlobal
`, doc.String())
}

func TestDocument_DuplicateKeysRoundTrip(t *testing.T) {
	content := `Global
	GlobalSection(Dupes) = preSolution
		k = 1
		j = 2
		k = 3
	EndGlobalSection
EndGlobal
`
	doc := parseString(t, content)
	s, ok := doc.GlobalSection("Dupes")
	require.True(t, ok)
	assert.Equal(t, []Entry{{"k", "1"}, {"j", "2"}, {"k", "3"}}, s.Entries())
	assert.Equal(t, content, doc.String())
}

func TestDocument_AddGlobalSection(t *testing.T) {
	doc := parseString(t, `Global
	GlobalSection(SolutionProperties) = preSolution
		HideSolutionNode = FALSE
	EndGlobalSection
EndGlobal
`)

	s, err := NewSection("ExtensibilityGlobals", SectionTypePostSolution)
	require.NoError(t, err)
	require.NoError(t, s.Add("SolutionGuid", "{CCCC}"))
	doc.AddGlobalSection(s)

	got, ok := doc.GlobalSection("ExtensibilityGlobals")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, `Global
	GlobalSection(SolutionProperties) = preSolution
		HideSolutionNode = FALSE
	EndGlobalSection
	GlobalSection(ExtensibilityGlobals) = postSolution
		SolutionGuid = {CCCC}
	EndGlobalSection
EndGlobal
`, doc.String())
}

func TestDocument_AddGlobalSectionCreatesGlobalBlock(t *testing.T) {
	doc := parseString(t, "Microsoft Visual Studio Solution File, Format Version 12.00\n")

	s, err := NewSection("SolutionProperties", SectionTypePreSolution)
	require.NoError(t, err)
	doc.AddGlobalSection(s)

	assert.Equal(t, "Microsoft Visual Studio Solution File, Format Version 12.00\n"+
		"Global\n"+
		"\tGlobalSection(SolutionProperties) = preSolution\n"+
		"\tEndGlobalSection\n"+
		"EndGlobal\n", doc.String())
}

func TestDocument_RemoveGlobalSection(t *testing.T) {
	doc, err := ParseFile(context.Background(), "testdata/sample.sln")
	require.NoError(t, err)

	assert.True(t, doc.RemoveGlobalSection("SolutionProperties"))
	assert.False(t, doc.RemoveGlobalSection("SolutionProperties"))

	_, ok := doc.GlobalSection("SolutionProperties")
	assert.False(t, ok)
	assert.NotContains(t, doc.String(), "HideSolutionNode")
}

func TestDocument_ProjectSection(t *testing.T) {
	doc, err := ParseFile(context.Background(), "testdata/sample.sln")
	require.NoError(t, err)

	s, ok := doc.ProjectSection("11111111-1111-1111-1111-111111111111", SectionProjectDependencies)
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())

	s, ok = doc.ProjectSection("{33333333-3333-3333-3333-333333333333}", SectionSolutionItems)
	require.True(t, ok)
	assert.Equal(t, 2, s.Len())

	_, ok = doc.ProjectSection("{44444444-4444-4444-4444-444444444444}", SectionSolutionItems)
	assert.False(t, ok)
}

func TestDocument_Save(t *testing.T) {
	original, err := os.ReadFile("testdata/sample.sln")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Copy.sln")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	doc, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	props, ok := doc.GlobalSection("SolutionProperties")
	require.True(t, ok)
	require.NoError(t, props.Set("HideSolutionNode", "TRUE"))
	require.NoError(t, doc.Save(context.Background()))

	reloaded, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	props, ok = reloaded.GlobalSection("SolutionProperties")
	require.True(t, ok)
	assert.Equal(t, "TRUE", props.Value("HideSolutionNode"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestParse_KeepsUnrepresentableLines(t *testing.T) {
	content := `Global
	GlobalSection(Odd) = preSolution
		no separator here
		a = b = c
		ok = yes

		last = one
	EndGlobalSection
EndGlobal
`
	doc := parseString(t, content)

	s, ok := doc.GlobalSection("Odd")
	require.True(t, ok)
	assert.Equal(t, []Entry{{"ok", "yes"}, {"last", "one"}}, s.Entries())
	assert.Equal(t, content, doc.String())

	require.NoError(t, s.Set("ok", "no"))
	assert.Equal(t, strings.Replace(content, "ok = yes", "ok = no", 1), doc.String())

	assert.True(t, s.Remove("ok"))
	assert.True(t, s.Remove("last"))
	assert.Equal(t, `Global
	GlobalSection(Odd) = preSolution
		no separator here
		a = b = c

	EndGlobalSection
EndGlobal
`, doc.String(), "kept lines outlive the entries around them")
}

func TestDocument_SaveKeepsUnrepresentableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Conn.sln")
	require.NoError(t, os.WriteFile(path, []byte(`Global
	GlobalSection(ExtensibilityGlobals) = postSolution
		Conn = Server=x;Db=y
		SolutionGuid = {A}
	EndGlobalSection
EndGlobal
`), 0o644))

	doc, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	s, ok := doc.GlobalSection("ExtensibilityGlobals")
	require.True(t, ok)
	require.NoError(t, s.Set("SolutionGuid", "{B}"))
	require.NoError(t, doc.Save(context.Background()))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `Global
	GlobalSection(ExtensibilityGlobals) = postSolution
		Conn = Server=x;Db=y
		SolutionGuid = {B}
	EndGlobalSection
EndGlobal
`, string(saved))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		message string
	}{
		{
			name:    "missing EndProject",
			content: "Project(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"A\", \"A.csproj\", \"{11111111-1111-1111-1111-111111111111}\"\n",
			line:    1,
			message: "missing EndProject",
		},
		{
			name:    "missing EndGlobalSection",
			content: "Global\n\tGlobalSection(X) = preSolution\n\t\ta = b\n",
			line:    3,
			message: "missing EndGlobalSection",
		},
		{
			name:    "global section outside Global",
			content: "\tGlobalSection(X) = preSolution\n\tEndGlobalSection\n",
			line:    1,
			message: "outside of its enclosing block",
		},
		{
			name:    "project section outside Project",
			content: "Global\n\tProjectSection(X) = preProject\n",
			line:    2,
			message: "outside of its enclosing block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlnParser(nil).ParseReader(context.Background(), strings.NewReader(tt.content), "Bad.sln")
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Contains(t, parseErr.Message, tt.message)
		})
	}
}

func TestParse_NoActiveConfiguration(t *testing.T) {
	doc := parseString(t, "Global\nEndGlobal\n")
	assert.False(t, doc.Solution().ActiveConfiguration().IsFullySpecified())
}
