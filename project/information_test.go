package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/gosln/frameworks"
	"github.com/willibrandon/gosln/solution"
)

type fakeSolution struct {
	active solution.ConfigurationAndPlatform
}

func (f fakeSolution) ActiveConfiguration() solution.ConfigurationAndPlatform {
	return f.active
}

func TestNewInformation_RequiredArguments(t *testing.T) {
	tests := []struct {
		name      string
		sol       Solution
		fileName  string
		wantParam string
	}{
		{"nil solution", nil, "App.csproj", "solution"},
		{"typed nil solution", (*solution.Solution)(nil), "App.csproj", "solution"},
		{"empty file name", fakeSolution{}, "", "fileName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := NewInformation(tt.sol, tt.fileName)
			assert.Nil(t, info)
			require.ErrorIs(t, err, solution.ErrInvalidArgument)

			var argErr *solution.ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.wantParam, argErr.Param)
		})
	}
}

func TestNewInformation_ProjectName(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"App.csproj", "App"},
		{"/src/App/App.csproj", "App"},
		{`src\Lib\My.Lib.vbproj`, "My.Lib"},
		{"Makefile", "Makefile"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			info, err := NewInformation(fakeSolution{}, tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.ProjectName)
			assert.Equal(t, tt.fileName, info.FileName())
		})
	}
}

func TestNewInformation_Defaults(t *testing.T) {
	sol := fakeSolution{}
	info, err := NewInformation(sol, "App.csproj")
	require.NoError(t, err)

	assert.Equal(t, sol, info.Solution())
	assert.NotNil(t, info.ConfigurationMapping)
	assert.Equal(t, 0, info.ConfigurationMapping.Len())
	assert.NotNil(t, info.ProjectSections)
	assert.Empty(t, info.ProjectSections)
	assert.Equal(t, uuid.Nil, info.IdGUID)
	assert.Equal(t, uuid.Nil, info.TypeGUID)
}

func TestNewInformation_ActiveConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		active solution.ConfigurationAndPlatform
		want   solution.ConfigurationAndPlatform
	}{
		{
			name:   "fully specified goes through the mapping",
			active: solution.NewConfigurationAndPlatform("Release", "Any CPU"),
			want:   solution.NewConfigurationAndPlatform("Release", "AnyCPU"),
		},
		{
			name:   "platform kept when no translation applies",
			active: solution.NewConfigurationAndPlatform("Release", "x64"),
			want:   solution.NewConfigurationAndPlatform("Release", "x64"),
		},
		{
			name:   "no configuration",
			active: solution.ConfigurationAndPlatform{},
			want:   solution.NewConfigurationAndPlatform("Debug", "AnyCPU"),
		},
		{
			name:   "missing platform",
			active: solution.NewConfigurationAndPlatform("Release", ""),
			want:   solution.NewConfigurationAndPlatform("Debug", "AnyCPU"),
		},
		{
			name:   "missing configuration",
			active: solution.NewConfigurationAndPlatform("", "x64"),
			want:   solution.NewConfigurationAndPlatform("Debug", "AnyCPU"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := NewInformation(fakeSolution{active: tt.active}, "App.csproj")
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.ActiveProjectConfiguration)
			if tt.active.IsFullySpecified() {
				assert.Equal(t, info.ConfigurationMapping.GetProjectConfiguration(tt.active), info.ActiveProjectConfiguration)
			}
		})
	}
}

func TestNewLoadInformation(t *testing.T) {
	info, err := NewLoadInformation(fakeSolution{}, "src/App/App.csproj", "Application")
	require.NoError(t, err)

	assert.Equal(t, "Application", info.ProjectName)
	assert.Nil(t, info.UpgradeToolsVersion)
	assert.Equal(t, DefaultProjectConfiguration, info.ActiveProjectConfiguration)
	require.NotNil(t, info.ProgressMonitor())
	assert.Equal(t, NullProgressMonitor(), info.ProgressMonitor())

	upgrade := false
	info.UpgradeToolsVersion = &upgrade
	assert.False(t, *info.UpgradeToolsVersion)
}

func TestNewLoadInformation_RequiredArguments(t *testing.T) {
	_, err := NewLoadInformation(fakeSolution{}, "App.csproj", "")
	var argErr *solution.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "projectName", argErr.Param)

	_, err = NewLoadInformation(nil, "App.csproj", "App")
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "solution", argErr.Param)

	_, err = NewLoadInformation(fakeSolution{}, "", "App")
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "fileName", argErr.Param)
}

func TestLoadInformation_SetProgressMonitor(t *testing.T) {
	info, err := NewLoadInformation(fakeSolution{}, "App.csproj", "App")
	require.NoError(t, err)

	err = info.SetProgressMonitor(nil)
	assert.True(t, errors.Is(err, solution.ErrInvalidArgument))
	assert.Equal(t, NullProgressMonitor(), info.ProgressMonitor(), "default kept after rejected assignment")

	monitor := NewLoggingProgressMonitor(context.Background(), nil)
	require.NoError(t, info.SetProgressMonitor(monitor))
	assert.Same(t, monitor, info.ProgressMonitor())

	for _, rejected := range []ProgressMonitor{nil, (*LoggingProgressMonitor)(nil)} {
		err = info.SetProgressMonitor(rejected)
		require.ErrorIs(t, err, solution.ErrInvalidArgument)
		assert.Same(t, monitor, info.ProgressMonitor(), "previous monitor kept after rejected assignment")
	}

	info.ProgressMonitor().Report(0.5)
	assert.InDelta(t, 0.5, monitor.Progress(), 1e-9)
}

func TestNewCreateInformation(t *testing.T) {
	sol := fakeSolution{active: solution.NewConfigurationAndPlatform("Debug", "Any CPU")}

	a, err := NewCreateInformation(sol, "/work/NewApp/NewApp.csproj")
	require.NoError(t, err)
	b, err := NewCreateInformation(sol, "/work/NewApp/NewApp.csproj")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.IdGUID)
	assert.NotEqual(t, a.IdGUID, b.IdGUID)
	assert.Equal(t, "", a.RootNamespace)
	assert.Equal(t, "NewApp", a.ProjectName)
	assert.Nil(t, a.TargetFramework)
	assert.False(t, a.InitializeTypeSystem)
	assert.Equal(t, solution.NewConfigurationAndPlatform("Debug", "AnyCPU"), a.ActiveProjectConfiguration)

	a.TargetFramework = frameworks.MustParse("net8.0")
	a.InitializeTypeSystem = true
	a.RootNamespace = "Contoso.NewApp"
	assert.Equal(t, "net8.0", a.TargetFramework.String())
}

func TestNewCreateInformation_RequiredArguments(t *testing.T) {
	_, err := NewCreateInformation(nil, "App.csproj")
	require.ErrorIs(t, err, solution.ErrInvalidArgument)

	_, err = NewCreateInformation((*solution.Solution)(nil), "App.csproj")
	require.ErrorIs(t, err, solution.ErrInvalidArgument)

	_, err = NewCreateInformation(fakeSolution{}, "")
	require.ErrorIs(t, err, solution.ErrInvalidArgument)
}
