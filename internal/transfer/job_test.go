// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/tmp/a", want: "/tmp/a/"},
		{in: "/tmp/a/", want: "/tmp/a/"},
		{in: "relative/dir", want: "relative/dir/"},
		{in: "/", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSource(tt.in))
		})
	}
}

func TestBuildArgs(t *testing.T) {
	job := Job{Source: "/tmp/a", Destination: "/tmp/x"}

	assert.Equal(t,
		[]string{"-ah", "--info=progress2", "--bwlimit=500", "/tmp/a/", "/tmp/x"},
		BuildArgs(job, DefaultBandwidthLimit),
	)

	assert.Equal(t,
		[]string{"-ah", "--info=progress2", "--bwlimit=1200", "/tmp/a/", "/tmp/x/"},
		BuildArgs(Job{Source: "/tmp/a/", Destination: "/tmp/x/"}, 1200),
		"destination is passed as given",
	)
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t,
		"rsync -ah --info=progress2 --bwlimit=500 /tmp/a/ /tmp/x",
		CommandLine(DefaultTool, Job{Source: "/tmp/a", Destination: "/tmp/x"}, DefaultBandwidthLimit),
	)

	assert.Equal(t,
		`rsync -ah --info=progress2 --bwlimit=500 "/tmp/my docs/" /tmp/x`,
		CommandLine(DefaultTool, Job{Source: "/tmp/my docs", Destination: "/tmp/x"}, DefaultBandwidthLimit),
	)
}

func TestJob_Label(t *testing.T) {
	job := Job{Source: "/tmp/a", Destination: "/tmp/x"}
	assert.Equal(t, "/tmp/a", job.Label())
	assert.Equal(t, "/tmp/a -> /tmp/x", job.String())
}
