// Copyright 2019 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/private/config"
)

type block struct {
	config.NoValidator
	config.NoDefaulter
	Value string `toml:"value"`
}

func (b *block) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, "\nvalue = \"x\"\n")
}

func (b *block) ConfigName() string {
	return "block"
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, config.Path{"outer"}, nil, &block{},
		config.StringSampler{Text: "\ntop = 1\n", Name: "extra"})
	assert.Equal(t, "\n[outer.block]\n    value = \"x\"\n\n[outer.extra]\n    top = 1\n",
		buf.String())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("value = \"v\"\n"), 0644))
	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("other = 1\n"), 0644))

	var cfg block
	require.NoError(t, config.LoadFile(good, &cfg))
	assert.Equal(t, "v", cfg.Value)
	assert.Error(t, config.LoadFile(unknown, &cfg))
	assert.Error(t, config.LoadFile(filepath.Join(dir, "missing.toml"), &cfg))
}

func TestFormatData(t *testing.T) {
	var buf bytes.Buffer
	s := config.FormatData(config.StringSampler{Text: "id = %q\n"}, "admin")
	s.Sample(&buf, nil, nil)
	assert.Equal(t, "id = \"admin\"\n", buf.String())
}
