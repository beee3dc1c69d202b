package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

var (
	ErrUnavailable = errors.New("pass command unavailable")
	ErrNotFound    = errors.New("credential not in password store")
)

const missingEntryMarker = "is not in the password store"

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps credentials in the user's password-store. Only the first line
// of an entry is the credential, following pass conventions, so an entry can
// carry notes below it.
type Store struct {
	run runFunc
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPass}
}

// CommandError is a failed pass invocation for one credential entry.
type CommandError struct {
	Action string
	Entry  string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s credential %q in pass: %v", e.Action, e.Entry, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	entry, err := entryName(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("credential %q: value is empty", entry)
	}

	_, stderr, err := s.run(ctx, value+"\n", "insert", "--multiline", "--force", entry)
	if err != nil {
		return &CommandError{Action: "store", Entry: entry, Stderr: stderr, Err: err}
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	entry, err := entryName(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", entry)
	if err != nil {
		if strings.Contains(stderr, missingEntryMarker) {
			err = ErrNotFound
		}
		return "", &CommandError{Action: "read", Entry: entry, Stderr: stderr, Err: err}
	}

	first, _, _ := strings.Cut(stdout, "\n")
	credential := strings.TrimSpace(first)
	if credential == "" {
		return "", fmt.Errorf("credential %q has an empty first line: %w", entry, ErrNotFound)
	}

	return credential, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	entry, err := entryName(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "--force", entry)
	if err != nil {
		if strings.Contains(stderr, missingEntryMarker) {
			err = ErrNotFound
		}
		return &CommandError{Action: "remove", Entry: entry, Stderr: stderr, Err: err}
	}

	return nil
}

// entryName maps a credential ref such as savior/gateway/url onto a pass
// entry path. Absolute paths and parent segments would escape the store.
func entryName(key string) (string, error) {
	entry := strings.Trim(strings.TrimSpace(key), "/")
	if entry == "" {
		return "", errors.New("credential ref is empty")
	}
	for _, segment := range strings.Split(entry, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("credential ref %q is not a valid pass entry", key)
		}
	}
	return entry, nil
}

func runPass(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
