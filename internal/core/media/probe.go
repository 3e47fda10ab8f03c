// Copyright 2025 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file resolves the playback duration of a media file. Video and audio
// are probed by shelling out to ffprobe; still images have no intrinsic
// runtime and get the fixed default instead.

package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// DurationProber resolves the duration, in seconds, of the media file at
// path. Implementations must return an error rather than a zero duration
// when resolution fails.
type DurationProber interface {
	Probe(ctx context.Context, path string, assetType model.AssetType) (float64, error)
}

// FFProbe resolves durations with the ffprobe binary.
type FFProbe struct {
	// BinaryPath is the ffprobe executable, defaulting to "ffprobe" on PATH.
	BinaryPath string
}

// NewFFProbe creates a prober using the given executable path.
func NewFFProbe(binaryPath string) *FFProbe {
	if binaryPath == "" {
		binaryPath = "ffprobe"
	}
	return &FFProbe{BinaryPath: binaryPath}
}

// Probe returns the duration of the file at path. Images return the default
// still-image duration without invoking ffprobe.
func (f *FFProbe) Probe(ctx context.Context, path string, assetType model.AssetType) (float64, error) {
	if assetType == model.AssetTypeImage {
		return model.DefaultImageDurationSeconds, nil
	}

	cmd := exec.CommandContext(ctx, f.BinaryPath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned an unparsable duration for %s: %w", path, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe returned a non-positive duration for %s", path)
	}
	return duration, nil
}
