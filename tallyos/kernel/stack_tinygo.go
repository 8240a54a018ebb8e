//go:build tinygo

package kernel

// Stack capture is not useful under TinyGo; the panic value and task ID
// carry what the recovery screen can show.
func captureStack() []byte {
	return nil
}
