// Copyright 2017 The RSL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shader

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/rslerr"
)

// entry is one cached compile result, keyed by the source mtime that
// produced it.
type entry struct {
	mtime time.Time
	prog  *Program
	err   error
}

// Cache compiles shader source files by path, by-passing a recompile as
// long as the file's mtime has not advanced since the last Load.
// Grounded on google-gapid/gapil/api.go's Processor, whose
// Parsed/Resolved maps are guarded the same way (one mutex, simple
// map-of-path) rather than a generational or LRU cache: a shader library
// is small and reloaded rarely enough that eviction was never a need the
// original had either.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]entry{}}
}

// Load reads and compiles the shader source at path, returning a cached
// Program if path's mtime has not changed since the last successful
// compile. A cached compile error is also replayed without touching
// disk or policy again, treating load() as a single fallible operation
// rather than a read step and a compile step.
func (c *Cache) Load(path string, policy rslerr.ErrorPolicy) (*Program, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "shader: stat %q", path)
	}
	mtime := info.ModTime()

	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.mtime.Equal(mtime) {
		c.mu.Unlock()
		return e.prog, e.err
	}
	c.mu.Unlock()

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "shader: read %q", path)
	}
	prog, cerr := Compile(path, string(src), policy)

	c.mu.Lock()
	c.entries[path] = entry{mtime: mtime, prog: prog, err: cerr}
	c.mu.Unlock()

	return prog, cerr
}

// Invalidate drops any cached entry for path, forcing the next Load to
// recompile regardless of mtime.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
