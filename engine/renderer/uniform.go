package renderer

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// uniformShape returns the component count of a type and whether it is
// set through the integer entry points.
func uniformShape(t metadata.ShaderUniformType) (components int, integer bool, ok bool) {
	switch t {
	case metadata.SHADER_UNIFORM_TYPE_FLOAT:
		return 1, false, true
	case metadata.SHADER_UNIFORM_TYPE_FLOAT_VEC2:
		return 2, false, true
	case metadata.SHADER_UNIFORM_TYPE_FLOAT_VEC3:
		return 3, false, true
	case metadata.SHADER_UNIFORM_TYPE_FLOAT_VEC4:
		return 4, false, true
	case metadata.SHADER_UNIFORM_TYPE_INT, metadata.SHADER_UNIFORM_TYPE_BOOL, metadata.SHADER_UNIFORM_TYPE_SAMPLER_2D:
		return 1, true, true
	case metadata.SHADER_UNIFORM_TYPE_INT_VEC2:
		return 2, true, true
	case metadata.SHADER_UNIFORM_TYPE_INT_VEC3:
		return 3, true, true
	case metadata.SHADER_UNIFORM_TYPE_INT_VEC4:
		return 4, true, true
	case metadata.SHADER_UNIFORM_TYPE_MATRIX_3:
		return 9, false, true
	case metadata.SHADER_UNIFORM_TYPE_MATRIX_4:
		return 16, false, true
	}
	return 0, false, false
}

// convertUniformValue normalizes value for a uniform of type t. It reports
// false when the value has the wrong shape.
func convertUniformValue(t metadata.ShaderUniformType, value interface{}) (interface{}, bool) {
	switch t {
	case metadata.SHADER_UNIFORM_TYPE_MATRIX_4:
		switch v := value.(type) {
		case math.Mat4:
			return v, true
		case [16]float32:
			return math.Mat4{Data: v}, true
		}
		return nil, false
	case metadata.SHADER_UNIFORM_TYPE_MATRIX_3:
		switch v := value.(type) {
		case [9]float32:
			return v, true
		case math.Mat4:
			return [9]float32{
				v.Data[0], v.Data[1], v.Data[2],
				v.Data[4], v.Data[5], v.Data[6],
				v.Data[8], v.Data[9], v.Data[10],
			}, true
		}
		return nil, false
	}

	n, integer, ok := uniformShape(t)
	if !ok {
		return nil, false
	}
	if integer {
		ints, ok := toInts(value)
		if !ok || len(ints) != n {
			return nil, false
		}
		return ints, true
	}
	floats, ok := toFloats(value)
	if !ok || len(floats) != n {
		return nil, false
	}
	return floats, true
}

func toFloats(value interface{}) ([]float32, bool) {
	switch v := value.(type) {
	case float32:
		return []float32{v}, true
	case float64:
		return []float32{float32(v)}, true
	case int:
		return []float32{float32(v)}, true
	case int64:
		return []float32{float32(v)}, true
	case math.Vec2:
		return []float32{v.X, v.Y}, true
	case math.Vec3:
		return []float32{v.X, v.Y, v.Z}, true
	case math.Vec4:
		return []float32{v.X, v.Y, v.Z, v.W}, true
	case []float32:
		return append([]float32(nil), v...), true
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, true
	case []interface{}:
		out := make([]float32, 0, len(v))
		for _, e := range v {
			f, ok := toFloats(e)
			if !ok || len(f) != 1 {
				return nil, false
			}
			out = append(out, f[0])
		}
		return out, true
	}
	return nil, false
}

func toInts(value interface{}) ([]int32, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return []int32{1}, true
		}
		return []int32{0}, true
	case int:
		return []int32{int32(v)}, true
	case int32:
		return []int32{v}, true
	case int64:
		return []int32{int32(v)}, true
	case uint32:
		return []int32{int32(v)}, true
	case []int32:
		return append([]int32(nil), v...), true
	case []int:
		out := make([]int32, len(v))
		for i, n := range v {
			out[i] = int32(n)
		}
		return out, true
	case []interface{}:
		out := make([]int32, 0, len(v))
		for _, e := range v {
			n, ok := toInts(e)
			if !ok || len(n) != 1 {
				return nil, false
			}
			out = append(out, n[0])
		}
		return out, true
	}
	return nil, false
}
