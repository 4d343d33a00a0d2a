// myetrace consumes a trace event stream and routes each event to the
// configured set of processors: printers, counters, and the HTTP
// call-correlation trackers.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.SetFlags(0)
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
