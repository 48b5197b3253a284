// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

func parseHCL(name string, data []byte) (*File, error) {
	f := &File{}

	if err := hclsimple.Decode(name, data, evalContext(), f); err != nil {
		return nil, fmt.Errorf("failed to decode hcl: %w", err)
	}

	return f, nil
}

// evalContext exposes the process environment as the env object.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(os.Environ()),
		},
	}
}

func envObject(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vals[k] = cty.StringVal(v)
	}

	return cty.ObjectVal(vals)
}
