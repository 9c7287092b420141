// Command shasum256 is a thin CLI wrapper around sha256core: argument
// parsing, file I/O, and stdin framing live here so sha256core stays a
// pure library.
package main

import (
	"massnet.org/shapipe/cmd/shasum256/cmd"
)

func main() {
	cmd.Execute()
}
