package configs

// Configurable is implemented by setting types that can be read from config files.
// ConfigPath is the CUE path of the setting.
type Configurable interface {
	ConfigPath() string
}

// Lookup reads the first definition of a Configurable setting.
func Lookup[T Configurable](loader Loader) (ret T, ok bool) {
	err := loader.AssignFirst(ret.ConfigPath(), &ret)
	if err != nil {
		return ret, false
	}
	return ret, true
}
