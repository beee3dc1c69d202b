package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gatewayKey = "savior/gateway/url"

func TestStorePutInsertsTrimmedValue(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(_ context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "--multiline", "--force", gatewayKey}, args)
			assert.Equal(t, "amqp://bot@broker\n", input)
			return "", "", nil
		},
	}

	require.NoError(t, store.Put(context.Background(), gatewayKey, "  amqp://bot@broker \n"))
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", gatewayKey}, args)
			assert.Empty(t, input)
			return "amqp://bot@broker\nuser: bot\nnote: staging\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), gatewayKey)
	require.NoError(t, err)
	assert.Equal(t, "amqp://bot@broker", value)
}

func TestStoreDeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "--force", gatewayKey}, args)
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), gatewayKey))
}

func TestStoreErrorsCarryStderr(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), gatewayKey)
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "read", cmdErr.Action)
	assert.Equal(t, gatewayKey, cmdErr.Entry)
	assert.ErrorContains(t, err, `read credential "savior/gateway/url" in pass`)
	assert.ErrorContains(t, err, "No secret key")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStoreMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stdout string
		stderr string
		err    error
	}{
		{name: "absent", stderr: "Error: savior/gateway/url is not in the password store.", err: errors.New("exit status 1")},
		{name: "blank first line", stdout: "\nnote: rotated\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &Store{
				run: func(context.Context, string, ...string) (string, string, error) {
					return tc.stdout, tc.stderr, tc.err
				},
			}

			_, err := store.Get(context.Background(), gatewayKey)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsInvalidRefsAndValues(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("pass must not run")
			return "", "", nil
		},
	}

	for _, key := range []string{"", "  ", "/", "savior/../gpg", "savior//url", "./url"} {
		_, err := store.Get(context.Background(), key)
		assert.Error(t, err, "ref %q", key)
	}

	assert.ErrorContains(t, store.Put(context.Background(), gatewayKey, " \n"), "value is empty")
}

func TestStoreNormalisesEntryName(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, _ string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "--force", gatewayKey}, args)
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), " /savior/gateway/url/ "))
}

func TestStoreSkipsRunWhenContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("pass must not run")
			return "", "", nil
		},
	}

	require.ErrorIs(t, store.Put(ctx, gatewayKey, "x"), context.Canceled)
}
