package exporter

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pageviews/internal/errors"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir, nil)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"date", "value"},
				Records: [][]string{
					{"2016-05-09", "1201"},
					{"2016-05-10", "2329"},
				},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3)
				assert.Equal(t, "date,value", lines[0])
				assert.Equal(t, "2016-05-09,1201", lines[1])
				assert.Equal(t, "2016-05-10,2329", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Year", "May"},
				Records:   [][]string{{"2016", "1748.67"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "Year,May", lines[0])
				assert.Equal(t, "2016,1748.67", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"a", "b"}, {"c", "d"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "a,b\nc,d\n", string(content))
			},
		},
		{
			name:     "empty records",
			filePath: "empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1,Col2\n", string(content))
			},
		},
		{
			name:     "nested directory is created",
			filePath: filepath.Join("sub", "dir", "nested.csv"),
			options: WriteOptions{
				Records: [][]string{{"x"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "x\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tempDir, tt.filePath), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_Truncates(t *testing.T) {
	writer := NewCSVWriter(t.TempDir(), nil)

	_, err := writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"first"}, {"run"}, {"longer"}}})
	require.NoError(t, err)
	path, err := writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"second"}}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))
}

func TestCSVWriter_AbsolutePathIgnoresBase(t *testing.T) {
	writer := NewCSVWriter(filepath.Join(t.TempDir(), "base"), nil)
	abs := filepath.Join(t.TempDir(), "abs.csv")

	path, err := writer.WriteSimpleCSV(abs, []string{"h"}, [][]string{{"v"}})
	require.NoError(t, err)
	assert.Equal(t, abs, path)
}

func TestCSVWriter_StorageError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	writer := NewCSVWriter(blocker, nil)
	_, err := writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"x"}}})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseFile(t *testing.T) {
	diskFull := stderrors.New("no space left on device")
	earlier := apperrors.NewStorageError("failed to write headers", nil)

	tests := []struct {
		name    string
		closer  failingCloser
		initial error
		want    error
	}{
		{name: "clean close keeps nil", closer: failingCloser{}},
		{name: "close error surfaces", closer: failingCloser{err: diskFull}, want: diskFull},
		{name: "earlier error wins", closer: failingCloser{err: diskFull}, initial: earlier, want: earlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.initial
			closeFile(tt.closer, "out.csv", &err)

			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperrors.ErrStorage)
		})
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "1748.67", formatMean(5246.0/3))
	assert.Equal(t, "", formatMean(nan()))
	assert.Equal(t, "1201", formatValue(1201))
	assert.Equal(t, "2329.5", formatValue(2329.5))
}
