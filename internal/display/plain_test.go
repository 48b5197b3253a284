// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPlain(buf)

	require.NoError(t, p.Render(sampleStatuses()))
	require.NoError(t, p.Clear())

	assert.Equal(t, "/tmp/a\n55%\n/tmp/b\n\n", buf.String())
}
