// Package main provides the common-tools CLI.
//
// common-tools re-encodes JSON and converts between JSON and XML with the
// codec settings:
//
//	common-tools json payload.json
//	common-tools xml --root user payload.json
//	common-tools fromxml < payload.xml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
