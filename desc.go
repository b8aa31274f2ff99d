package gpushader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/soypat/gpushader/shadertext"
)

// buildState is the configuration and accumulated source of a descriptor.
// Fields are exported so they can be deep copied on Clone.
type buildState struct {
	UniqueID       string
	Language       shadertext.Language
	FunctionName   string
	ResourcePrefix string
	PixelName      string
	NumResources   resourceCounter
	Fragments      fragments
	Textures       []Texture
	Textures3D     []Texture3D
}

// ShaderDesc accumulates the source fragments of a shader program, assembles
// them into a program for the configured language and identifies the result
// with a cache ID.
//
// Fragment accumulation and [ShaderDesc.Finalize] must not be called concurrently.
// [ShaderDesc.CacheID] is safe to call from multiple goroutines.
type ShaderDesc struct {
	state   buildState
	adapter languageAdapter
	// wrapper is only non-nil for languages that need a class wrapped entry point.
	wrapper *ClassWrapper
	props   propertyRegistry
	log     *slog.Logger

	finalized bool
	code      []byte

	// mu guards everything the cache ID is made of.
	mu         sync.Mutex
	codeID     string
	cacheID    string
	cacheValid bool
}

// New returns a descriptor targeting GLSL 1.2 with default function, resource and pixel names.
func New() *ShaderDesc {
	d := &ShaderDesc{
		state: buildState{
			Language:       shadertext.GLSL1_2,
			FunctionName:   DefaultFunctionName,
			ResourcePrefix: DefaultResourcePrefix,
			PixelName:      DefaultPixelName,
		},
		adapter: passthrough{},
		log:     slog.Default(),
	}
	return d
}

// SetLogger sets the logger used to report the assembled program. A nil logger restores [slog.Default].
func (d *ShaderDesc) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	d.log = l
}

// SetUniqueID sets a caller defined identifier for the shader.
func (d *ShaderDesc) SetUniqueID(uid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.UniqueID = uid
	d.cacheValid = false
}

// UniqueID returns the identifier set with [ShaderDesc.SetUniqueID].
func (d *ShaderDesc) UniqueID() string { return d.state.UniqueID }

// SetLanguage sets the target language. Languages that require a class wrapped
// entry point get fresh wrapper state and have their function name set to "Display".
func (d *ShaderDesc) SetLanguage(lang shadertext.Language) error {
	a, err := adapterFor(lang)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Language = lang
	d.adapter = a
	d.wrapper = nil
	if requiresClassWrapper(a) {
		d.wrapper = &ClassWrapper{}
		d.state.FunctionName = classWrapFunctionName
	}
	d.cacheValid = false
	return nil
}

// Language returns the target language.
func (d *ShaderDesc) Language() shadertext.Language { return d.state.Language }

// SetFunctionName sets the name of the generated function. Double underscores are collapsed.
func (d *ShaderDesc) SetFunctionName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.FunctionName = sanitizeName(name)
	d.cacheValid = false
}

// FunctionName returns the name of the generated function.
func (d *ShaderDesc) FunctionName() string { return d.state.FunctionName }

// SetResourcePrefix sets the prefix of uniform and texture names. Double underscores are collapsed.
func (d *ShaderDesc) SetResourcePrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.ResourcePrefix = sanitizeName(prefix)
	d.cacheValid = false
}

// ResourcePrefix returns the prefix of uniform and texture names.
func (d *ShaderDesc) ResourcePrefix() string { return d.state.ResourcePrefix }

// SetPixelName sets the name of the pixel variable. Double underscores are collapsed.
func (d *ShaderDesc) SetPixelName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.PixelName = sanitizeName(name)
	d.cacheValid = false
}

// PixelName returns the name of the pixel variable.
func (d *ShaderDesc) PixelName() string { return d.state.PixelName }

// NextResourceIndex returns a resource index never returned before by d.
func (d *ShaderDesc) NextResourceIndex() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cacheValid = false
	return d.state.NumResources.next()
}

// NumResources returns how many resource indices were handed out.
func (d *ShaderDesc) NumResources() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.NumResources.count()
}

// AddDynamicProperty registers p. It fails with [ErrDuplicateProperty] if a
// property of the same type is already registered.
func (d *ShaderDesc) AddDynamicProperty(p *DynamicProperty) error {
	return d.props.add(p)
}

// HasDynamicProperty reports whether a property of type typ is registered.
func (d *ShaderDesc) HasDynamicProperty(typ PropertyType) bool { return d.props.has(typ) }

// NumDynamicProperties returns the number of registered dynamic properties.
func (d *ShaderDesc) NumDynamicProperties() int { return len(d.props.props) }

// DynamicProperty returns the i'th registered property.
func (d *ShaderDesc) DynamicProperty(i int) (*DynamicProperty, error) { return d.props.at(i) }

// DynamicPropertyByType returns the registered property of type typ.
func (d *ShaderDesc) DynamicPropertyByType(typ PropertyType) (*DynamicProperty, error) {
	return d.props.byType(typ)
}

// AddDynamicUniform registers p and declares the uniform the shader reads it from.
// It returns the uniform name, made of the resource prefix and the property type.
func (d *ShaderDesc) AddDynamicUniform(p *DynamicProperty) (string, error) {
	if err := d.props.add(p); err != nil {
		return "", err
	}
	name := sanitizeName(d.state.ResourcePrefix + "_" + p.typ.String())
	decl := shadertext.AppendUniformDecl(nil, d.state.Language, p.valueKind(), name)
	d.AddToDeclareShaderCode(string(decl))
	return name, nil
}

// AddToDeclareShaderCode appends global declarations.
func (d *ShaderDesc) AddToDeclareShaderCode(code string) {
	addWithBanner(&d.state.Fragments.Declarations, declarationsBanner, code)
}

// AddToHelperShaderCode appends helper function definitions.
func (d *ShaderDesc) AddToHelperShaderCode(code string) {
	addWithBanner(&d.state.Fragments.HelperMethods, helpersBanner, code)
}

// AddToFunctionHeaderShaderCode appends to the function signature and opening.
func (d *ShaderDesc) AddToFunctionHeaderShaderCode(code string) {
	d.state.Fragments.FunctionHeader += code
}

// AddToFunctionShaderCode appends to the function body.
func (d *ShaderDesc) AddToFunctionShaderCode(code string) {
	d.state.Fragments.FunctionBody += code
}

// AddToFunctionFooterShaderCode appends to the function closing.
func (d *ShaderDesc) AddToFunctionFooterShaderCode(code string) {
	d.state.Fragments.FunctionFooter += code
}

func addWithBanner(dst *string, banner, code string) {
	if code == "" {
		return
	}
	if *dst == "" {
		*dst = banner
	}
	*dst += code
}

// ClassWrapper returns the class wrapper state or nil if the language does not use one.
// Its parameters and source are populated by [ShaderDesc.Finalize].
func (d *ShaderDesc) ClassWrapper() *ClassWrapper { return d.wrapper }

// Finalize adapts the accumulated fragments to the target language and assembles
// the program returned by [ShaderDesc.ShaderText]. A descriptor can be finalized once,
// later calls fail with [ErrFinalized].
func (d *ShaderDesc) Finalize() error {
	if d.finalized {
		return ErrFinalized
	}
	frag := d.state.Fragments
	if err := d.adapter.preprocess(d, &frag); err != nil {
		return fmt.Errorf("preparing %s shader: %w", d.state.Language, err)
	}
	var wrapHeader, wrapFooter string
	if d.wrapper != nil {
		wrapHeader, wrapFooter = d.wrapper.header, d.wrapper.footer
	}
	code := appendShaderSource(nil, wrapHeader, frag, wrapFooter)
	codeID := shadertext.ContentID(code)

	d.mu.Lock()
	d.code = code
	d.codeID = codeID
	d.cacheValid = false
	d.mu.Unlock()
	d.finalized = true

	if d.log.Enabled(context.Background(), slog.LevelDebug) {
		d.log.Debug("GPU fragment shader program",
			slog.String("language", d.state.Language.String()),
			slog.String("function", d.state.FunctionName),
			slog.String("id", codeID),
			slog.String("program", string(code)),
		)
	}
	return nil
}

// Finalized reports whether [ShaderDesc.Finalize] completed successfully.
func (d *ShaderDesc) Finalized() bool { return d.finalized }

// ShaderText returns the assembled program. It is empty before finalization.
func (d *ShaderDesc) ShaderText() string { return string(d.code) }

// ContentID returns the digest of the assembled program. It is empty before finalization.
func (d *ShaderDesc) ContentID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codeID
}

// CacheID returns the identity of the shader, made of the language, function name,
// resource prefix, pixel name, resource count and program digest separated by spaces.
// It is computed on first use after any change and is safe for concurrent use.
func (d *ShaderDesc) CacheID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.cacheValid {
		d.cacheID = string(d.appendCacheID(nil))
		d.cacheValid = true
	}
	return d.cacheID
}

func (d *ShaderDesc) appendCacheID(b []byte) []byte {
	b = append(b, d.state.Language.String()...)
	b = append(b, ' ')
	b = append(b, d.state.FunctionName...)
	b = append(b, ' ')
	b = append(b, d.state.ResourcePrefix...)
	b = append(b, ' ')
	b = append(b, d.state.PixelName...)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(d.state.NumResources.count()), 10)
	b = append(b, ' ')
	b = append(b, d.codeID...)
	return b
}

// Clone returns an unfinalized descriptor with a deep copy of d's configuration,
// fragments, resource count and textures. Dynamic properties, the assembled
// program and its identity are not copied.
func (d *ShaderDesc) Clone() (*ShaderDesc, error) {
	c := New()
	c.log = d.log
	d.mu.Lock()
	err := copier.CopyWithOption(&c.state, &d.state, copier.Option{DeepCopy: true})
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("cloning shader descriptor: %w", err)
	}
	c.adapter, err = adapterFor(c.state.Language)
	if err != nil {
		return nil, err
	}
	if requiresClassWrapper(c.adapter) {
		c.wrapper = &ClassWrapper{}
	}
	return c, nil
}
