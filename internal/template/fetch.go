// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package template

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Azure/azmgmt/internal/environment"
	"github.com/hashicorp/go-getter/v2"
)

// FetchDir returns the directory remote templates named name are downloaded to, below AZMGMT_DIR.
func FetchDir(name string) string {
	return filepath.Join(environment.AzMgmtDir(), "templates", name)
}

// Fetch downloads the directory src, any go-getter source such as
// github.com/org/repo//templates/web?ref=v1.2.0, to dst and returns it as an fs.FS.
// dst is replaced when it exists.
func Fetch(ctx context.Context, src, dst string) (fs.FS, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("template.Fetch: %w", err)
	}

	if err := os.RemoveAll(dst); err != nil {
		return nil, fmt.Errorf("template.Fetch: cleaning %s: %w", dst, err)
	}

	client := &getter.Client{}

	req := &getter.Request{
		Src:     src,
		Dst:     dst,
		Pwd:     wd,
		GetMode: getter.ModeDir,
		Copy:    true,
	}
	if _, err := client.Get(ctx, req); err != nil {
		return nil, fmt.Errorf("template.Fetch: %s: %w", src, err)
	}

	return os.DirFS(dst), nil
}
