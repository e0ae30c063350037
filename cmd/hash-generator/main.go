// Package main prints bcrypt hashes for seeding accounts by hand.
//
// The password is read from the terminal without echo, or from stdin when
// stdin is not a terminal:
//
//	echo -n 'secret' | hash-generator
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/service/auth"
	"golang.org/x/term"
)

func main() {
	cost := flag.Int("cost", auth.DefaultBcryptCost, "bcrypt work factor")
	flag.Parse()

	password, err := readPassword(os.Stdin, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}

	hash, err := hashPassword(password, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > domain.MaxPasswordLength {
		return "", fmt.Errorf("password exceeds %d bytes", domain.MaxPasswordLength)
	}
	return auth.NewBcryptHasher(cost).Hash(password)
}
