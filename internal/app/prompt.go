package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/config"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// EnsurePassphrase asks for the embedded store passphrase when it is not
// configured and stdin is a terminal. Non-interactive runs keep the empty
// passphrase.
func EnsurePassphrase(cfg *config.Config, w io.Writer) error {
	if cfg.EmbeddedPassphrase != "" {
		return nil
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return nil
	}

	if _, err := fmt.Fprint(w, "Enter embedded store passphrase: "); err != nil {
		return err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	cfg.EmbeddedPassphrase = string(pw)
	common.WipeByteArray(pw)
	return nil
}
