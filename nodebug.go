//go:build !debugConfigmapper
// +build !debugConfigmapper

package configmapper

func debugf(string, ...interface{}) {}

func debugDump(string, interface{}) {}
