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

package shader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/grid"
	"github.com/reyeslang/rsl/host"
	"github.com/reyeslang/rsl/shader"
	"github.com/reyeslang/rsl/transform"
	"github.com/reyeslang/rsl/value"
)

type recordingPolicy struct {
	parserErrors []string
}

func (p *recordingPolicy) ParserError(line int, message string) {
	p.parserErrors = append(p.parserErrors, message)
}
func (p *recordingPolicy) RenderError(code int, message string) {}

type nullHost struct{}

func (nullHost) TransformTo(string) (transform.Mat4, bool) { return transform.Identity(), true }
func (nullHost) FindTexture(string) (host.Texture, bool)   { return nil, false }
func (nullHost) CameraTransform() transform.Mat4           { return transform.Identity() }

func TestCompileAndShadeRoundTrip(t *testing.T) {
	var pol recordingPolicy
	prog, err := shader.Compile("matte.sl", `
surface matte(float Kd = 1)
{
	Ci = Kd;
	Oi = 1;
}
`, &pol)
	require.NoError(t, err)
	require.Empty(t, pol.parserErrors)

	g, err := grid.New(2, 2)
	require.NoError(t, err)
	g.Value("P", value.Point, value.Varying)

	m, err := shader.Bind(prog, g, nullHost{})
	require.NoError(t, err)
	require.NoError(t, shader.Shade(m))

	ci, ok := m.Register("Ci")
	require.True(t, ok)
	require.Equal(t, [3]float32{1, 1, 1}, ci.Vec3(0))
}

func TestCompileReportsDiagnosticsAndFails(t *testing.T) {
	var pol recordingPolicy
	_, err := shader.Compile("bad.sl", `surface bad( { Ci = 1; }`, &pol)
	require.Error(t, err)
	require.NotEmpty(t, pol.parserErrors)
}

func TestCacheRecompilesOnlyWhenFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.sl")
	require.NoError(t, os.WriteFile(path, []byte(`surface flat() { Ci = 1; Oi = 1; }`), 0o644))

	c := shader.NewCache()
	var pol recordingPolicy
	first, err := c.Load(path, &pol)
	require.NoError(t, err)

	second, err := c.Load(path, &pol)
	require.NoError(t, err)
	require.Same(t, first, second, "unchanged mtime should return the cached Program")

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, os.WriteFile(path, []byte(`surface flat() { Ci = 2; Oi = 1; }`), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	third, err := c.Load(path, &pol)
	require.NoError(t, err)
	require.NotSame(t, first, third, "changed mtime should force a recompile")
}
