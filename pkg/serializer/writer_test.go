// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type inner struct {
	Status string `json:"status" yaml:"status"`
}

type sample struct {
	Name     string            `json:"name" yaml:"name"`
	Count    int               `json:"count" yaml:"count"`
	Inner    inner             `json:"inner" yaml:"inner"`
	Tags     []string          `json:"tags" yaml:"tags"`
	Labels   map[string]string `json:"labels" yaml:"labels"`
	Optional *inner            `json:"optional" yaml:"optional"`
	Hidden   string            `json:"-" yaml:"-"`
	Elapsed  time.Duration     `json:"elapsed" yaml:"elapsed"`
}

func newSample() sample {
	return sample{
		Name:    "c1",
		Count:   3,
		Inner:   inner{Status: "CREATED"},
		Tags:    []string{"a", "b"},
		Labels:  map[string]string{"k": "v"},
		Hidden:  "secret",
		Elapsed: 2 * time.Minute,
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), newSample()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "c1", got["name"])
	assert.NotContains(t, got, "Hidden")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), newSample()))

	var got sample
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CREATED", got.Inner.Status)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
}

func TestWriter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), newSample()))
	out := buf.String()

	assert.Contains(t, out, "FIELD")
	for _, want := range []string{"name", "inner.status", "tags.[1]", "labels.k", "optional", "elapsed"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "2m0s")
	assert.NotContains(t, out, "secret")
}

func TestWriter_TableScalarsAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), 42))
	assert.Contains(t, buf.String(), "value")

	buf.Reset()
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_TableTime(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct {
		At time.Time `json:"at"`
	}{ts}))
	assert.Contains(t, buf.String(), "2025-01-02 03:04:05")
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter("xml", &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	assert.IsType(t, &Writer{}, NewFileWriterOrStdout(FormatJSON, ""))
	assert.IsType(t, &ConfigMapWriter{}, NewFileWriterOrStdout(FormatJSON, "cm://ns/report"))
	assert.IsType(t, &Writer{}, NewFileWriterOrStdout(FormatJSON, "cm://bad"), "invalid URI falls back to stdout")

	path := filepath.Join(t.TempDir(), "out.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, w.Serialize(context.Background(), newSample()))
	c, ok := w.(Closer)
	require.True(t, ok)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "name: c1")

	bad := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.IsType(t, &Writer{}, bad)
}
