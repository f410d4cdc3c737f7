// Command oasis-validate checks an OASIS file's trailer signature and
// prints the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/oasis"
)

func run(path string) (bool, error) {
	f, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return false, err
	}
	defer f.Close()

	result, err := oasis.Validate(f)
	if err != nil {
		return false, err
	}
	if result.Valid {
		fmt.Printf("%s: valid (scheme %d)\n", path, result.Scheme)
	} else {
		fmt.Printf("%s: INVALID (scheme %d, stored %d, computed %d)\n", path, result.Scheme, result.Stored, result.Computed)
	}
	return result.Valid, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: oasis-validate oasis-file")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	valid, err := run(args[0])
	if err != nil {
		log.Fatalf("oasis-validate: %v", err)
	}
	if !valid {
		os.Exit(1)
	}
}
