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

// This file wraps raw PCM audio from the speech backend into a playable WAV
// container. The backend returns 16-bit little-endian samples with no
// header, so the 44-byte RIFF header is written here.

package media

import (
	"bytes"
	"encoding/binary"
)

// Defaults for speech synthesis output: 24 kHz, mono, 16-bit samples.
const (
	SpeechSampleRate  = 24000
	SpeechNumChannels = 1
	speechBitDepth    = 16
)

// EncodeWAV prepends a RIFF/WAVE header to raw 16-bit PCM samples.
func EncodeWAV(pcm []byte, sampleRate int, numChannels int) []byte {
	byteRate := sampleRate * numChannels * speechBitDepth / 8
	blockAlign := numChannels * speechBitDepth / 8
	dataSize := len(pcm)

	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))             // fmt chunk size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))              // PCM format
	_ = binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(speechBitDepth)) // bits per sample
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)
	return buf.Bytes()
}

// PCMDurationSeconds computes the playback length of raw 16-bit PCM.
func PCMDurationSeconds(pcm []byte, sampleRate int, numChannels int) float64 {
	if sampleRate <= 0 || numChannels <= 0 {
		return 0
	}
	samples := len(pcm) / (speechBitDepth / 8) / numChannels
	return float64(samples) / float64(sampleRate)
}
