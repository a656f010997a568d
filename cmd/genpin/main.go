package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/restynation/buythatworks/pkg/auth"
)

func main() {
	pin := flag.String("pin", "", "PIN to hash (a random one is generated when empty)")
	flag.Parse()

	if *pin == "" {
		p, err := auth.RandomPIN()
		if err != nil {
			fmt.Printf("Error generating PIN: %v\n", err)
			os.Exit(1)
		}
		*pin = p
	}

	hash, err := auth.HashPIN(*pin)
	if err != nil {
		fmt.Printf("Error hashing PIN: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("PIN:  %s\n", *pin)
	fmt.Printf("Hash: %s\n", hash)
}
