package amf

// Config holds codec settings shared by the AMF0 and AMF3 contexts
type Config struct {
	// Registry resolves class aliases. Nil means DefaultRegistry.
	Registry *Registry
	// AllowUnregistered decodes unknown AMF3 classes and AMF0 typed objects
	// as *Object carrying the class name instead of failing.
	AllowUnregistered bool
}

// DefaultConfig returns default codec configuration
func DefaultConfig() Config {
	return Config{
		Registry: DefaultRegistry,
	}
}

func (c Config) registry() *Registry {
	if c.Registry == nil {
		return DefaultRegistry
	}
	return c.Registry
}
