package meshgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute locations shared by the buffers and the shader.
const (
	attribPosition = 0
	attribUV       = 1
	attribColor    = 2
)

const vertexShader = `#version 410 core

layout(location = 0) in vec2 aVertexPosition;
layout(location = 1) in vec2 aTextureCoord;
layout(location = 2) in vec4 aColor;

uniform mat3 translationMatrix;
uniform vec2 projectionVector;
uniform vec2 offsetVector;
uniform float alpha;
uniform vec3 tint;

out vec2 vTextureCoord;
out vec4 vColor;

void main() {
    vec3 v = translationMatrix * vec3(aVertexPosition, 1.0);
    v -= offsetVector.xyx;
    gl_Position = vec4(v.x / projectionVector.x - 1.0, v.y / -projectionVector.y + 1.0, 0.0, 1.0);
    vTextureCoord = aTextureCoord;
    vColor = vec4(tint, 1.0) * aColor.a * alpha;
}
`

const fragmentShader = `#version 410 core

in vec2 vTextureCoord;
in vec4 vColor;

uniform sampler2D uSampler;

out vec4 fragColor;

void main() {
    fragColor = texture(uSampler, vTextureCoord) * vColor;
}
`

// compileProgram compiles vertex and fragment shaders and links them.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}
	return shader, nil
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
