package rescache

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ErrProgramReleased is returned when operating on a program whose last
// reference is already gone.
var ErrProgramReleased = errors.New("rescache: program released")

// Program is a shader program compiled from WGSL. Shaders share
// programs, and unlike pixel buffers a GPU shader module is not
// garbage collected, so the program counts its references and destroys
// the module when the last one goes.
type Program struct {
	id     ResourceID
	label  string
	source string
	code   []uint32
	device hal.Device
	module hal.ShaderModule
	refs   int
}

// CompileProgram compiles WGSL source to SPIR-V and wraps it in a
// program. The returned program carries one reference owned by the
// caller; attaching it to a shader with SetProgram hands that
// reference over.
func CompileProgram(label, wgslSource string) (*Program, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("rescache: compile program %q: %w", label, err)
	}

	// Repack the byte stream into the little-endian 32-bit words
	// SPIR-V consumers expect.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return &Program{
		id:     newResourceID(),
		label:  label,
		source: wgslSource,
		code:   code,
		refs:   1,
	}, nil
}

// ID returns the program's stable resource identity.
func (p *Program) ID() ResourceID {
	return p.id
}

// Label returns the debug label the program was compiled under.
func (p *Program) Label() string {
	return p.label
}

// Source returns the WGSL source.
func (p *Program) Source() string {
	return p.source
}

// Code returns the compiled SPIR-V words.
func (p *Program) Code() []uint32 {
	return p.code
}

// Upload creates the GPU shader module on the device. Uploading an
// already uploaded program is a no-op; a program binds to at most one
// device for its lifetime.
func (p *Program) Upload(device hal.Device) error {
	if p.refs <= 0 {
		return ErrProgramReleased
	}
	if p.module != nil {
		return nil
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: p.label,
		Source: hal.ShaderSource{
			SPIRV: p.code,
		},
	})
	if err != nil {
		return fmt.Errorf("rescache: create shader module %q: %w", p.label, err)
	}

	p.device = device
	p.module = module
	return nil
}

// Module returns the uploaded shader module, or nil before Upload and
// after the last reference is released.
func (p *Program) Module() hal.ShaderModule {
	return p.module
}

// retain adds a reference.
func (p *Program) retain() {
	p.refs++
}

// release drops a reference. The last release destroys the GPU module.
func (p *Program) release() {
	if p.refs <= 0 {
		Logger().Warn("release of dead program", "label", p.label)
		return
	}

	p.refs--
	if p.refs > 0 {
		return
	}

	if p.module != nil && p.device != nil {
		p.device.DestroyShaderModule(p.module)
	}
	p.module = nil
	p.device = nil
}
