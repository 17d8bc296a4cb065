// Package shared provides helpers for handling sensitive data in memory.
package shared

// WipeByteArray overwrites b with zeros. Use it on passwords and keys once
// they are no longer needed. A nil slice is ignored.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
