package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/vaarthai/vithai/internal/crypto"
)

// genkey prints a JWT_SECRET and, given a password as an argument or on
// stdin, the matching ADMIN_PASSWORD_HASH.
func main() {
	secret, err := crypto.GenerateSecret()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("JWT_SECRET=%s\n", secret)

	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
