//go:build !tinygo && !cgo

package hal

import "errors"

func RunWindow(_ func(h HAL) func() error) error {
	return errors.New("window mode needs cgo; run with -headless or rebuild with CGO_ENABLED=1")
}
