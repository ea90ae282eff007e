package core

import (
	"errors"
)

var (
	ErrTransformCycle         = errors.New("transform parent would create a cycle")
	ErrShaderNotFound         = errors.New("shader not found")
	ErrShaderExists           = errors.New("shader already registered")
	ErrShaderCompile          = errors.New("shader failed to compile")
	ErrMaterialNotFound       = errors.New("material not found")
	ErrMaterialExists         = errors.New("material already registered")
	ErrMeshNotFound           = errors.New("mesh not found")
	ErrMeshExists             = errors.New("mesh already registered")
	ErrInvalidMesh            = errors.New("invalid mesh data")
	ErrTextureNotFound        = errors.New("texture not found")
	ErrTextureExists          = errors.New("texture already registered")
	ErrUnsupportedUniformType = errors.New("unsupported uniform type")
	ErrInvalidAsset           = errors.New("invalid asset file")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrUnknown                = errors.New("unknown")
)
