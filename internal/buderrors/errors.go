// Package buderrors defines bud's error taxonomy. Each kind is a distinct
// struct implementing error and Unwrap() error, so callers can use
// errors.As across layers instead of matching on message text.
package buderrors

import "fmt"

// ConfigError reports a problem loading or validating the root config
// (bud.json) or a plugin manifest (plugin.json).
type ConfigError struct {
	Kind ConfigErrorKind
	Path string
	Err  error
}

// ConfigErrorKind discriminates configuration failures per §6/§7.
type ConfigErrorKind string

const (
	ConfigFileNotFound    ConfigErrorKind = "FileNotFound"
	ConfigParseError      ConfigErrorKind = "ParseError"
	ConfigValidationError ConfigErrorKind = "ValidationError"
	ConfigIoError         ConfigErrorKind = "IoError"
)

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError of the given kind.
func NewConfigError(kind ConfigErrorKind, path string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Path: path, Err: err}
}

// ProviderErrorKind discriminates the Provider contract's error family (§4.2).
type ProviderErrorKind string

const (
	InitFailed        ProviderErrorKind = "InitFailed"
	LoadFailed        ProviderErrorKind = "LoadFailed"
	InjectionFailed   ProviderErrorKind = "InjectionFailed"
	InvocationFailed  ProviderErrorKind = "InvocationFailed"
	UnloadFailed      ProviderErrorKind = "UnloadFailed"
	PermissionDenied  ProviderErrorKind = "PermissionDenied"
)

// ProviderError is returned by every Provider operation that can fail.
// The Manager wraps these with plugin-name context when surfacing them
// as LoadError/InvokeError (§7 propagation policy).
type ProviderError struct {
	Kind ProviderErrorKind
	Msg  string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(kind ProviderErrorKind, msg string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Msg: msg, Err: err}
}

// LoadError reports that the Manager could not install, discover, or load
// a plugin. The plugin name (when known) is prepended for context, never
// a host-absolute path.
type LoadError struct {
	Plugin string
	Msg    string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("load error: plugin %q: %s", e.Plugin, e.msgOrErr())
	}
	return fmt.Sprintf("load error: %s", e.msgOrErr())
}

func (e *LoadError) msgOrErr() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError builds a LoadError for the given plugin.
func NewLoadError(plugin, msg string, err error) *LoadError {
	return &LoadError{Plugin: plugin, Msg: msg, Err: err}
}

// InvokeError reports that the Manager could not complete an invocation.
type InvokeError struct {
	Plugin   string
	Function string
	Err      error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("invoke error: plugin %q function %q: %v", e.Plugin, e.Function, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

// NewInvokeError builds an InvokeError.
func NewInvokeError(plugin, function string, err error) *InvokeError {
	return &InvokeError{Plugin: plugin, Function: function, Err: err}
}

// InstallError reports that Manager.Install could not place a plugin on disk.
type InstallError struct {
	Plugin string
	Msg    string
	Err    error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("install error: plugin %q: %s: %v", e.Plugin, e.Msg, e.Err)
	}
	return fmt.Sprintf("install error: plugin %q: %s", e.Plugin, e.Msg)
}

func (e *InstallError) Unwrap() error { return e.Err }

// NewInstallError builds an InstallError.
func NewInstallError(plugin, msg string, err error) *InstallError {
	return &InstallError{Plugin: plugin, Msg: msg, Err: err}
}

// ProjectDirsError reports that the data-root directory could not be resolved.
type ProjectDirsError struct {
	Err error
}

func (e *ProjectDirsError) Error() string { return fmt.Sprintf("project dirs error: %v", e.Err) }
func (e *ProjectDirsError) Unwrap() error { return e.Err }

// NewProjectDirsError builds a ProjectDirsError.
func NewProjectDirsError(err error) *ProjectDirsError { return &ProjectDirsError{Err: err} }

// FacadeError is the single error type the Harness Façade returns from
// build(), mapping 1:1 from the layers beneath (§4.6).
type FacadeError struct {
	Stage string // "config", "provider_init", "plugin"
	Err   error
}

func (e *FacadeError) Error() string { return fmt.Sprintf("harness build failed (%s): %v", e.Stage, e.Err) }
func (e *FacadeError) Unwrap() error { return e.Err }

// NewFacadeError builds a FacadeError.
func NewFacadeError(stage string, err error) *FacadeError { return &FacadeError{Stage: stage, Err: err} }
