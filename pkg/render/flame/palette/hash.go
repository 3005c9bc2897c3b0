package palette

import "strings"

// NameHash maps a frame name to [0, 1]. Early characters weigh more than
// later ones and only the first three count, so closely related names land
// on neighbouring colors. A module prefix ("libc.so`malloc") is ignored.
func NameHash(name string) float64 {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[i+1:]
	}

	var vector float64
	weight, total := 1.0, 1.0
	mod := 10
	for i := 0; i < len(name) && mod <= 12; i++ {
		vector += float64(int(name[i])%mod) / float64(mod-1) * weight
		total += weight
		weight *= 0.70
		mod++
	}
	return 1 - vector/total
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
