package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockEditor creates a script that appends text to the file it is given.
func createMockEditor(t *testing.T, text string) string {
	t.Helper()

	script := filepath.Join(t.TempDir(), "mock-editor")
	content := "#!/bin/sh\nprintf '%s' '" + text + "' >> \"$1\"\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o700))
	return script
}

func TestResolve(t *testing.T) {
	script := createMockEditor(t, "")

	t.Run("EDITOR wins", func(t *testing.T) {
		got, err := Resolve(func(key string) string {
			if key == "EDITOR" {
				return script + " --wait"
			}
			return ""
		})
		require.NoError(t, err)
		assert.Equal(t, []string{script, "--wait"}, got)
	})

	t.Run("missing EDITOR falls back", func(t *testing.T) {
		t.Setenv("PATH", filepath.Dir(script))
		require.NoError(t, os.Rename(script, filepath.Join(filepath.Dir(script), "nano")))

		got, err := Resolve(func(string) string { return "/nonexistent/editor" })
		require.NoError(t, err)
		assert.Equal(t, []string{"nano"}, got)
	})

	t.Run("nothing available", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		_, err := Resolve(func(string) string { return "" })
		assert.ErrorIs(t, err, ErrNoEditor)
	})
}

func TestEdit(t *testing.T) {
	script := createMockEditor(t, "The printer is on fire.\n# not a comment? yes it is\nCall facilities.\n")

	got, err := Edit([]string{script}, "Describe the issue.\nLines starting with # are ignored.")
	require.NoError(t, err)
	assert.Equal(t, "The printer is on fire.\nCall facilities.", got)
}

func TestEditFailingEditor(t *testing.T) {
	script := filepath.Join(t.TempDir(), "failing-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0o700))

	_, err := Edit([]string{script}, "hint")
	assert.Error(t, err)
}

func TestEditWithoutEditor(t *testing.T) {
	_, err := Edit(nil, "hint")
	assert.ErrorIs(t, err, ErrNoEditor)
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "a\n\nb", stripComments("# hint\n\na\n\nb\n# trailing\n"))
	assert.Equal(t, "", stripComments("# only comments\n"))
}
