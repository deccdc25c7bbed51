package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"VanityGrind/internal/keystore"
	"VanityGrind/pkg/appcfg"
	"VanityGrind/pkg/i18n"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Runner owns the command tree and its terminal I/O.
type Runner struct {
	in  *bufio.Reader
	out io.Writer
	cfg *appcfg.Config
	msg i18n.Messages

	// stdinFD is checked with term.IsTerminal before reading passwords.
	stdinFD int

	scryptN, scryptP int
}

func NewRunner(cfg *appcfg.Config) *Runner {
	return &Runner{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		cfg:     cfg,
		msg:     i18n.Get(cfg.Language),
		stdinFD: int(os.Stdin.Fd()),
		scryptN: keystore.StandardScryptN,
		scryptP: keystore.StandardScryptP,
	}
}

// Command builds the root command with all subcommands attached.
func (r *Runner) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "vanitygrind",
		Short: r.msg.AppShort,
		Long: `Searches ed25519 keypairs in parallel until the base58 public key
starts with the requested prefix, then stores the secret in .env or an
encrypted keystore.`,
		SilenceUsage: true,
	}
	root.SetOut(r.out)
	root.AddCommand(r.grindCommand(), r.loadCommand(), r.encryptCommand(), r.decryptCommand())
	return root
}

func (r *Runner) prompt(label string) string {
	fmt.Fprint(r.out, label)
	text, _ := r.in.ReadString('\n')
	return strings.TrimSpace(text)
}

// readPassword reads without echo on a terminal and falls back to a plain
// line read when stdin is piped.
func (r *Runner) readPassword(label string) (string, error) {
	if !term.IsTerminal(r.stdinFD) {
		return r.prompt(label), nil
	}
	fmt.Fprint(r.out, label)
	b, err := term.ReadPassword(r.stdinFD)
	fmt.Fprintln(r.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func (r *Runner) readNewPassword() (string, error) {
	pwd, err := r.readPassword(r.msg.PasswordPrompt)
	if err != nil {
		return "", err
	}
	if pwd == "" {
		return "", errors.New("empty password")
	}
	again, err := r.readPassword(r.msg.PasswordConfirm)
	if err != nil {
		return "", err
	}
	if again != pwd {
		return "", errors.New(r.msg.PasswordMismatch)
	}
	return pwd, nil
}

func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
