// Copyright 2025 Calyptra
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


package artifact

import (
	"fmt"
	"iter"
	"sync"
)

// HeaderSize is how many leading bytes of a file are offered to parsers
// for format identification.
const HeaderSize = 8192

// Parser extracts evidence entries from one artifact file format.
// Implementations must be safe for concurrent use; a single Parser instance
// serves every file of its format.
type Parser interface {
	// Type returns the human-readable format name, e.g. "Text Log File".
	Type() string

	// Identify reports whether the given file header belongs to this format.
	Identify(header []byte) bool

	// Parse opens the file and returns a lazy, finite sequence of entries.
	// A non-nil error from Parse is fatal to the file. Per-entry errors are
	// yielded alongside a zero Entry and may be skipped by the caller.
	Parse(path string) (iter.Seq2[Entry, error], error)
}

var (
	registryMu sync.RWMutex
	registry   []Parser
)

// Register appends a parser to the detection chain. Parsers are consulted
// in registration order; built-in parsers register last so external formats
// with stronger signatures win.
func Register(p Parser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, p)
}

// Detect returns the first registered parser that recognizes the header.
// Returns ErrNoParser when no parser matches.
func Detect(header []byte) (Parser, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, p := range registry {
		if p.Identify(header) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognized format", ErrNoParser)
}

// Parsers returns a snapshot of the registered parsers in detection order.
func Parsers() []Parser {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Parser, len(registry))
	copy(out, registry)
	return out
}

func init() {
	// Built-in parsers. JSON lines is checked before plain text because
	// JSON is also valid UTF-8 text.
	Register(&JSONLinesParser{})
	Register(&TextLineParser{})
}
