package common

// WipeByteArray overwrites the slice contents with zeroes. Use it to clear
// password material as soon as it is no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
