package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "")
	t.Setenv("YOUTRACK_USERNAME", "")
	t.Setenv("YOUTRACK_PASSWORD", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "")
	t.Setenv("YOUTRACK_USERNAME", "")
	t.Setenv("YOUTRACK_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "nested", "ytshot.yaml")
	want := Output{
		Name:          "Work tracker",
		URL:           "https://yt.example",
		Username:      "alice",
		Password:      "secret",
		FileName:      "Shot <Date>",
		FileFormat:    "jpg",
		OpenInBrowser: false,
		LastProjectID: "DEMO",
		LastIssueID:   "DEMO-42",
	}

	require.NoError(t, Save(want, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://file.example\nusername: file-user\n"), 0600))

	t.Setenv("YOUTRACK_URL", "https://env.example")
	t.Setenv("YOUTRACK_USERNAME", "env-user")
	t.Setenv("YOUTRACK_PASSWORD", "env-pass")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.URL)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "env-pass", cfg.Password)
	assert.True(t, cfg.HasCredentials())
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.URL = "https://yt.example"

	tests := []struct {
		name    string
		mutate  func(*Output)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Output) {}},
		{name: "missing url", mutate: func(o *Output) { o.URL = "" }, wantErr: true},
		{name: "relative url", mutate: func(o *Output) { o.URL = "yt.example" }, wantErr: true},
		{name: "ftp url", mutate: func(o *Output) { o.URL = "ftp://yt.example" }, wantErr: true},
		{name: "blank file name", mutate: func(o *Output) { o.FileName = "  " }, wantErr: true},
		{name: "unknown format", mutate: func(o *Output) { o.FileFormat = "psd" }, wantErr: true},
		{name: "credentials are optional", mutate: func(o *Output) { o.Username, o.Password = "", "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"":      "png",
		"PNG":   "png",
		".jpeg": "jpg",
		"JPG":   "jpg",
		"tif":   "tiff",
		"bmp":   "bmp",
		"psd":   "psd",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeFormat(in), "input %q", in)
	}
}

func TestLoadStoredIgnoresEnvAndKeepsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://file.example\nfile_format: PNG\n"), 0600))

	t.Setenv("YOUTRACK_URL", "https://env.example")
	t.Setenv("YOUTRACK_PASSWORD", "envsecret")

	stored, err := LoadStored(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example", stored.URL)
	assert.Empty(t, stored.Password)
	assert.Equal(t, "PNG", stored.FileFormat)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.FileFormat)
}

func TestPersist(t *testing.T) {
	tests := []struct {
		name         string
		remember     bool
		wantUsername string
		wantPassword string
	}{
		{name: "env credentials without remember", remember: false, wantUsername: "file-user", wantPassword: ""},
		{name: "remembered credentials", remember: true, wantUsername: "env-user", wantPassword: "envsecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ytshot.yaml")
			original := "url: https://yt.example\nusername: file-user\nfile_format: PNG\nopen_in_browser: false\n"
			require.NoError(t, os.WriteFile(path, []byte(original), 0600))

			t.Setenv("YOUTRACK_URL", "https://env.example")
			t.Setenv("YOUTRACK_USERNAME", "env-user")
			t.Setenv("YOUTRACK_PASSWORD", "envsecret")

			run, err := Load(path)
			require.NoError(t, err)
			run.LastProjectID = "DEMO"
			run.LastIssueID = "DEMO-42"
			run.OpenInBrowser = true

			require.NoError(t, Persist(path, run, tt.remember))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			if !tt.remember {
				assert.NotContains(t, string(data), "envsecret")
			}

			saved, err := LoadStored(path)
			require.NoError(t, err)
			assert.Equal(t, Output{
				Name:          DefaultName,
				URL:           "https://yt.example",
				Username:      tt.wantUsername,
				Password:      tt.wantPassword,
				FileName:      DefaultFileName,
				FileFormat:    "PNG",
				OpenInBrowser: false,
				LastProjectID: "DEMO",
				LastIssueID:   "DEMO-42",
			}, saved)
		})
	}
}
