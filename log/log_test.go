// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsInit(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	Init(&buf, LevelInfo, true)
	defer Discard()

	logger.Info("hello", "n", 1)
	logger.Debug("filtered")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, float64(1), rec["n"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, LevelDebug, false)
	defer Discard()

	WithContext("pkg", "a").With("id", "b").Debug("msg")
	assert.Contains(t, buf.String(), "pkg=a")
	assert.Contains(t, buf.String(), "id=b")
}

func TestLevelChange(t *testing.T) {
	var buf bytes.Buffer
	level := Init(&buf, LevelWarn, false)
	defer Discard()

	logger := WithContext("pkg", "test")
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	l, ok := ParseLevel("debug")
	require.True(t, ok)
	level.Set(l)
	logger.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Equal(t, "debug", LevelName(level.Level()))

	_, ok = ParseLevel("verbose")
	assert.False(t, ok)
}
