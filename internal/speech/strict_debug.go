//go:build debug

package speech

const strictTones = true
