// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"strings"
	"testing"
)

func TestValidateShaderSources(t *testing.T) {
	if err := ValidateShaderSources(); err != nil {
		t.Fatalf("shader validation failed: %v", err)
	}
}

func TestShaderEntryPoints(t *testing.T) {
	sources := map[string]string{
		"flat":     GetFlatCurveShaderSource(),
		"indexed":  GetIndexedCurveShaderSource(),
		"subpixel": GetSubpixelCurveShaderSource(),
		"resolve":  GetResolveShaderSource(),
	}
	for name, src := range sources {
		if !strings.Contains(src, "fn vs_main") {
			t.Errorf("%s shader missing vs_main", name)
		}
		if !strings.Contains(src, "fn fs_main") {
			t.Errorf("%s shader missing fs_main", name)
		}
	}
}

func TestCurveShadersShareFillTest(t *testing.T) {
	for _, src := range []string{
		GetFlatCurveShaderSource(),
		GetIndexedCurveShaderSource(),
		GetSubpixelCurveShaderSource(),
	} {
		if !strings.Contains(src, "fn fill_weight") {
			t.Error("curve shader missing fill_weight function")
		}
		if !strings.Contains(src, "uv.y >= uv.x * uv.x") {
			t.Error("curve shader missing parabola test")
		}
	}
}

func TestIndexedShaderColorTableBinding(t *testing.T) {
	src := GetIndexedCurveShaderSource()
	if !strings.Contains(src, "@group(0) @binding(0)") {
		t.Error("indexed shader missing color table binding")
	}
	if !strings.Contains(src, "var<storage, read>") {
		t.Error("indexed shader color table must be read-only storage")
	}
}

func TestSubpixelShaderInstanceInput(t *testing.T) {
	src := GetSubpixelCurveShaderSource()
	if !strings.Contains(src, "@location(4)") {
		t.Error("subpixel shader missing instance offset at location 4")
	}
	// The alpha weighting keeps the center instance at full strength and
	// the side instances at 0.6.
	if !strings.Contains(src, "0.6") || !strings.Contains(src, "0.4") {
		t.Error("subpixel shader missing alpha weighting constants")
	}
}

func TestResolveShaderVertexIndexTriangle(t *testing.T) {
	src := GetResolveShaderSource()
	if !strings.Contains(src, "@builtin(vertex_index)") {
		t.Error("resolve shader must generate its triangle from the vertex index")
	}
	if !strings.Contains(src, "textureSample") {
		t.Error("resolve shader missing texture sample")
	}
}
