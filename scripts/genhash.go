// One-off: go run scripts/genhash.go <password>
// Prints the stored form of a password, for seeding users by hand.
package main

import (
	"fmt"
	"os"

	"inputdash/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password>")
		os.Exit(2)
	}
	h, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(h)
}
