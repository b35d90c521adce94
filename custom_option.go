package hvd

// CustomOptions carries implementation-specific knobs through DecoderConfig
// without the root package depending on the implementation's types. An
// implementation picks out the options it understands with GetCustomOption.
type CustomOption = any
type CustomOptions []CustomOption

func GetCustomOption[T any](in CustomOptions) (T, bool) {
	for _, item := range in {
		v, ok := item.(T)
		if ok {
			return v, ok
		}
	}

	var zeroValue T
	return zeroValue, false
}
