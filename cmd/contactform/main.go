// Command contactform hosts the contact form in a browser or a terminal, renders
// static snapshots of it, and publishes the submission schema.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
