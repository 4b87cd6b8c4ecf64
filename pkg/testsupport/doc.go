// Package testsupport holds fixtures and golden-file helpers shared by the
// module's tests. Set UPDATE_GOLDENS=1 to rewrite golden files.
package testsupport
