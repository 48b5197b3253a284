// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrGetJobFile is returned when the job file cannot be retrieved.
var ErrGetJobFile = errors.New("failed to get job file")

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// Fetch retrieves the job file at url and returns its content and file name.
// Local paths are read through FsFactory; anything else is downloaded with
// go-getter into a temporary directory that is removed afterwards.
func Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", ErrGetJobFile
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetJobFile, err)
	}

	req := &getter.Request{
		Src:     url,
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	ok, err := getter.Detect(req, &getter.FileGetter{})
	if err != nil {
		return nil, "", errors.Join(ErrGetJobFile, err)
	}

	if ok {
		path := url
		if !filepath.IsAbs(path) {
			path = filepath.Join(wd, path)
		}

		ctxlog.Debug(ctx, "reading local job file", "path", path)

		data, err := afero.ReadFile(FsFactory(), path)
		if err != nil {
			return nil, "", errors.Join(ErrGetJobFile, err)
		}

		return data, filepath.Base(path), nil
	}

	return fetchRemote(ctx, url, wd)
}

// fetchRemote downloads the directory holding the file, as go-getter cannot fetch
// a single file from most sources. See https://github.com/hashicorp/go-getter/issues/98
func fetchRemote(ctx context.Context, url, wd string) ([]byte, string, error) {
	newURL, fileName := splitFileNameFromGetterURL(url)
	if newURL == "" || fileName == "" {
		return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetJobFile, url)
	}

	tmpDir, err := os.MkdirTemp("", "multisync-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetJobFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	client := getter.Client{
		DisableSymlinks: true,
	}

	ctxlog.Debug(ctx, "fetching remote job file", "url", newURL, "file", fileName)

	res, err := client.Get(ctx, &getter.Request{
		Src:     newURL,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	})
	if err != nil {
		return nil, "", errors.Join(ErrGetJobFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetJobFile, err)
	}

	return data, fileName, nil
}

// splitFileNameFromGetterURL splits the URL into the directory and file name.
// It returns the new getter URL without the file name and the file name itself.
// Any ref query parameter is kept on the new URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
