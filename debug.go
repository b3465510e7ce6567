//go:build debugConfigmapper
// +build debugConfigmapper

package configmapper

import (
	"log"

	"github.com/davecgh/go-spew/spew"
)

func debugf(fmt string, args ...interface{}) {
	log.Printf("configmapper: "+fmt, args...)
}

func debugDump(label string, v interface{}) {
	log.Printf("configmapper: %s:\n%s", label, spew.Sdump(v))
}
