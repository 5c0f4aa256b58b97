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

	"gopkg.in/yaml.v3"
)

const (
	test1Name = "test1"
)

type sample struct {
	Host    string            `json:"host"`
	Uptime  float64           `json:"uptime_seconds"`
	Bytes   uint64            `json:"bytes"`
	Devices map[string]uint64 `json:"devices"`
	Load    []float64         `json:"load"`
	Nested  *sampleNested     `json:"nested"`
	Skipped string            `json:"-"`
	private string
	Ratios  map[string]float64 `json:"ratios,omitempty"`
}

type sampleNested struct {
	Level int `json:"level"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}

	if result[0].Name != test1Name || result[0].Value != 123 {
		t.Errorf("Unexpected data: %+v", result[0])
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), testConfig{Name: test1Name, Value: 7}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if result.Name != test1Name || result.Value != 7 {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := sample{
		Host:    "node-1",
		Uptime:  12.5,
		Bytes:   1234567,
		Devices: map[string]uint64{"sda": 42},
		Load:    []float64{0.5, 1},
		Nested:  &sampleNested{Level: 3},
		Skipped: "hidden",
		private: "hidden",
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	wants := []string{
		"FIELD",
		"host",
		"node-1",
		"uptime_seconds",
		"12.500",
		"1,234,567",
		"devices.sda",
		"load.[0]",
		"0.500",
		"nested.level",
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}

	if strings.Contains(output, "hidden") {
		t.Errorf("table output contains skipped fields:\n%s", output)
	}

	// rows are sorted
	if strings.Index(output, "bytes") > strings.Index(output, "host") {
		t.Errorf("expected sorted rows:\n%s", output)
	}
}

func TestWriter_SerializeTable_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), map[string]string{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !strings.Contains(buf.String(), "<empty>") {
		t.Errorf("expected <empty>, got %q", buf.String())
	}
}

func TestWriter_SerializeTable_NilValues(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), sample{Host: "h"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !strings.Contains(buf.String(), "<nil>") {
		t.Errorf("expected nil pointer rendered as <nil>, got:\n%s", buf.String())
	}
}

func TestWriter_SerializeTable_Scalar(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), 1000); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !strings.Contains(buf.String(), "value") || !strings.Contains(buf.String(), "1,000") {
		t.Errorf("unexpected scalar output:\n%s", buf.String())
	}
}

func TestNewWriter_DefaultsToStdout(t *testing.T) {
	writer := NewWriter(FormatJSON, nil)
	if writer.output != os.Stdout {
		t.Error("expected stdout when output is nil")
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	writer := NewWriter(Format("xml"), &bytes.Buffer{})
	if writer.format != FormatJSON {
		t.Errorf("expected JSON fallback, got %s", writer.format)
	}
}

func TestWriter_Close(t *testing.T) {
	writer := NewStdoutWriter(FormatJSON)
	if err := writer.Close(); err != nil {
		t.Errorf("Close on stdout writer returned %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}

func TestNewFileWriterOrStdout_EmptyPath(t *testing.T) {
	writer := NewFileWriterOrStdout(FormatYAML, "  ")
	defer writer.Close()

	if writer.output != os.Stdout {
		t.Error("expected stdout for empty path")
	}
	if writer.format != FormatYAML {
		t.Errorf("expected yaml, got %s", writer.format)
	}
}

func TestNewFileWriterOrStdout_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writer := NewFileWriterOrStdout(FormatJSON, path)

	if err := writer.Serialize(context.Background(), testConfig{Name: test1Name, Value: 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), test1Name) {
		t.Errorf("file content missing data: %s", content)
	}
}

func TestNewFileWriterOrStdout_InvalidPath(t *testing.T) {
	writer := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	defer writer.Close()

	if writer.output != os.Stdout {
		t.Error("expected stdout fallback for unwritable path")
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{Format("xml"), true},
		{Format(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsUnknown(); got != tt.want {
				t.Errorf("IsUnknown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 3 {
		t.Fatalf("expected 3 formats, got %v", formats)
	}
	for _, f := range formats {
		if Format(f).IsUnknown() {
			t.Errorf("supported format %q reported unknown", f)
		}
	}
}
