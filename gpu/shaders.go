// Package gpu wires the curve-fill render pipelines on top of gogpu/wgpu.
package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.
// These are compiled at build time using go:embed directives.

//go:embed shaders/flat_curve.wgsl
var flatCurveShaderSource string

//go:embed shaders/indexed_curve.wgsl
var indexedCurveShaderSource string

//go:embed shaders/subpixel_curve.wgsl
var subpixelCurveShaderSource string

//go:embed shaders/resolve.wgsl
var resolveShaderSource string

// GetFlatCurveShaderSource returns the WGSL source for the flat curve pass.
func GetFlatCurveShaderSource() string {
	return flatCurveShaderSource
}

// GetIndexedCurveShaderSource returns the WGSL source for the indexed curve pass.
func GetIndexedCurveShaderSource() string {
	return indexedCurveShaderSource
}

// GetSubpixelCurveShaderSource returns the WGSL source for the subpixel curve pass.
func GetSubpixelCurveShaderSource() string {
	return subpixelCurveShaderSource
}

// GetResolveShaderSource returns the WGSL source for the resolve pass.
func GetResolveShaderSource() string {
	return resolveShaderSource
}

// ValidateShaderSources compiles every embedded WGSL source to SPIR-V with
// naga. Backends compile shaders themselves at pipeline creation; this
// exists so tests and hosts can catch shader regressions without a device.
func ValidateShaderSources() error {
	sources := []struct {
		name string
		src  string
	}{
		{"flat_curve", flatCurveShaderSource},
		{"indexed_curve", indexedCurveShaderSource},
		{"subpixel_curve", subpixelCurveShaderSource},
		{"resolve", resolveShaderSource},
	}
	for _, s := range sources {
		if s.src == "" {
			return fmt.Errorf("%s shader source is empty", s.name)
		}
		if _, err := naga.Compile(s.src); err != nil {
			return fmt.Errorf("compile %s shader: %w", s.name, err)
		}
	}
	return nil
}
