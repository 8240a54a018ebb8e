package proto

import "encoding/binary"

// MsgLogLine carries one UTF-8 line without the trailing newline.
// Delivery is best-effort; senders drop lines when the mailbox is full.
func LogLinePayload(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// MsgAppControl carries one byte: nonzero activates the task's display,
// zero deactivates it. The power manager sends it on wake and sleep.
func AppControlPayload(active bool) []byte {
	b := []byte{0}
	if active {
		b[0] = 1
	}
	return b
}

func DecodeAppControlPayload(b []byte) (active bool, ok bool) {
	if len(b) != 1 {
		return false, false
	}
	return b[0] != 0, true
}

// pointerPayloadLen is u16 x, u16 y (little-endian), then one press byte.
const pointerPayloadLen = 5

// MsgPointer carries a touch or click position in panel coordinates.
func PointerPayload(x, y uint16, press bool) []byte {
	b := make([]byte, pointerPayloadLen)
	binary.LittleEndian.PutUint16(b[0:2], x)
	binary.LittleEndian.PutUint16(b[2:4], y)
	if press {
		b[4] = 1
	}
	return b
}

func DecodePointerPayload(b []byte) (x, y uint16, press bool, ok bool) {
	if len(b) < pointerPayloadLen {
		return 0, 0, false, false
	}
	x = binary.LittleEndian.Uint16(b[0:2])
	y = binary.LittleEndian.Uint16(b[2:4])
	return x, y, b[4] != 0, true
}
