// Copyright 2025 Poiesic Systems
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


package ingestion

// DefaultChunkSize is the chunk length in characters used when no explicit
// size is configured.
const DefaultChunkSize = 1000

// Chunk splits content into contiguous, non-overlapping chunks of at most
// size characters. Character means rune, not byte; a multi-byte rune is never
// split. The last chunk may be shorter. Empty content yields no chunks.
func Chunk(content string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if content == "" {
		return nil
	}

	runes := []rune(content)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
