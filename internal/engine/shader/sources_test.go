package shader

import (
	"strings"
	"testing"
)

func TestSourcesDeclareBlocks(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"phong.vert", PhongVertexShader, []string{"uniform " + CameraBlock}},
		{"phong.frag", PhongFragmentShader, []string{"uniform " + CameraBlock, "uniform " + LightBlock}},
		{"unlit.frag", UnlitFragmentShader, []string{"uniform vec3 uColor", "uniform bool uUseVertexColor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.source, "#version 410 core") {
				t.Error("expected GLSL 4.10 core header")
			}
			for _, w := range tt.want {
				if !strings.Contains(tt.source, w) {
					t.Errorf("missing %q", w)
				}
			}
		})
	}
}

func TestFragmentShadersShareVaryings(t *testing.T) {
	for _, v := range []string{"vWorldPosition", "vNormal", "vColor"} {
		if !strings.Contains(PhongVertexShader, "out vec3 "+v) {
			t.Errorf("vertex shader does not write %s", v)
		}
		if !strings.Contains(PhongFragmentShader, "in vec3 "+v) {
			t.Errorf("phong fragment shader does not read %s", v)
		}
		if !strings.Contains(UnlitFragmentShader, "in vec3 "+v) {
			t.Errorf("unlit fragment shader does not read %s", v)
		}
	}
}
