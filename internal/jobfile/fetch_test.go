// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func TestFetch_Local(t *testing.T) {
	stubFs(t, map[string]string{"/jobs/backup.yaml": yamlJobs})

	data, name, err := Fetch(context.Background(), "/jobs/backup.yaml")
	require.NoError(t, err)
	assert.Equal(t, "backup.yaml", name)
	assert.Equal(t, yamlJobs, string(data))
}

func TestFetch_Errors(t *testing.T) {
	stubFs(t, nil)

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty url", url: ""},
		{name: "missing local file", url: "/jobs/missing.yaml"},
		{name: "remote get fails", url: "git::http://notexist//file.yaml"},
		{name: "remote url without file", url: "git::http://notexist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, name, err := Fetch(context.Background(), tt.url)
			require.ErrorIs(t, err, ErrGetJobFile)
			assert.Nil(t, data)
			assert.Empty(t, name)
		})
	}
}

func TestLoad(t *testing.T) {
	stubFs(t, map[string]string{
		"/jobs/backup.hcl": "job {\n  source = \"/tmp/a\"\n  destination = \"/tmp/x\"\n}\n",
		"/jobs/empty.yaml": "tool: rsync\n",
	})

	f, err := Load(context.Background(), "/jobs/backup.hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/a"}, f.Sources())

	_, err = Load(context.Background(), "/jobs/empty.yaml")
	require.ErrorIs(t, err, ErrNoJobs)

	_, err = Load(context.Background(), "/jobs/none.yaml")
	require.ErrorIs(t, err, ErrGetJobFile)
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantURL  string
		wantFile string
	}{
		{
			name:     "git with ref",
			url:      "git::https://github.com/org/repo//jobs/backup.yaml?ref=v1.0.0",
			wantURL:  "git::https://github.com/org/repo//jobs?ref=v1.0.0",
			wantFile: "backup.yaml",
		},
		{
			name:     "file at repo root",
			url:      "git::https://github.com/org/repo//backup.yaml",
			wantURL:  "git::https://github.com/org/repo",
			wantFile: "backup.yaml",
		},
		{
			name:     "https subdirectory",
			url:      "https://example.com/archive.zip//nested/jobs.hcl",
			wantURL:  "https://example.com/archive.zip//nested",
			wantFile: "jobs.hcl",
		},
		{
			name: "no subdirectory separator",
			url:  "https://example.com/jobs.yaml",
		},
		{
			name: "directory only",
			url:  "git::https://github.com/org/repo///",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantFile, gotFile)
		})
	}
}
