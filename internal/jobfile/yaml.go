// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

func parseYAML(data []byte) (*File, error) {
	f := &File{}

	if err := yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	return f, nil
}
