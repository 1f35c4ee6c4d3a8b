package main

import (
	"fmt"
	"log"
	"os"

	"carbon-market.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

// hash-gen prints a bcrypt hash for seeding marketplace accounts by hand.
// Pass the password as the first argument; without one a fixed seed
// password is hashed.
func resolvePassword(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "Evergreen.Canopy-88"
}

func generateHash(password string) (string, error) {
	return crypto.HashPassword(password)
}

func main() {
	password := resolvePassword(os.Args[1:])

	printfFn("password: %s\n", password)

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("hash generation failed: %v", err)
	}

	printfFn("bcrypt:   %s\n", hash)
}
