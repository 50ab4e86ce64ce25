package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptSecret asks for the shared signing secret on the terminal without
// echo.
func promptSecret(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter shared secret: "); err != nil {
		return "", err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(b))
	clear(b)
	return secret, nil
}
