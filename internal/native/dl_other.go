//go:build !darwin && !freebsd && !linux

package native

func dlopen(string) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func bindSend(uintptr, string) (sendFunc, error) {
	return nil, ErrUnsupportedPlatform
}

func bindFree(uintptr) func(uintptr) {
	return nil
}
