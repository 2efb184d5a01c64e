// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// unmarshaler decodes template and parameter files by extension.
type unmarshaler struct {
	d   []byte
	ext string
}

func newUnmarshaler(data []byte, ext string) unmarshaler {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return unmarshaler{
		d:   data,
		ext: ext,
	}
}

func (u unmarshaler) unmarshal(dst any) error {
	switch strings.ToLower(u.ext) {
	case ".json":
		return json.Unmarshal(u.d, dst) //nolint:wrapcheck
	case ".yaml", ".yml":
		return yaml.Unmarshal(u.d, dst) //nolint:wrapcheck
	}

	return fmt.Errorf("unmarshaler.unmarshal: unsupported extension: %s", u.ext)
}
