package tools

import "math/rand"

const (
	digits     = "0123456789"
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func randomDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}

func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = lowerAlnum[rand.Intn(len(lowerAlnum))]
	}
	return string(b)
}
