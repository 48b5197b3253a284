// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobfile reads transfer jobs from a YAML or HCL file.
//
// YAML:
//
//	bandwidth_limit: 500
//	interval: 500ms
//	tool: rsync
//	jobs:
//	  - source: /tmp/a
//	    destination: /tmp/x
//
// HCL, where env exposes the environment of the process:
//
//	bandwidth_limit = 500
//	job {
//	  source      = "${env.HOME}/a"
//	  destination = "/tmp/x"
//	}
//
// Files are fetched with go-getter, so any URL it understands can be used.
package jobfile
