/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

func debugLog(format string, a ...any) {
	if Debug {
		s := fmt.Sprintf(format, a...)
		fmt.Fprintf(os.Stderr, "[md2conf] %s", s)
	}
}

// newLogger is handed to the API client and the publisher. It only speaks with
// --debug.
func newLogger() *log.Logger {
	if !Debug {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "[md2conf] ", log.LstdFlags)
}
