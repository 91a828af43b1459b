package commands

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/tui"
)

// testEnv runs the command tree against fakes and a private config directory
type testEnv struct {
	deps    *Dependencies
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	gateway *api.MockCompleter
	dir     string

	completerCfg config.Config
	copied       []string
	chatLabel    string
	chatOpts     int
	chatCalls    int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, name := range []string{
		"GEMINICHAT_API_KEY", "GEMINICHAT_PROVIDER", "GEMINICHAT_MODEL", "GEMINICHAT_ENDPOINT",
		"GEMINICHAT_COPY_TO_CLIPBOARD", "GEMINICHAT_MARKDOWN_STYLE", "GEMINICHAT_LOGGING_CONSOLE",
		"GEMINICHAT_LOGGING_LEVEL", "OPENAI_API_KEY",
	} {
		t.Setenv(name, "")
	}

	e := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		gateway: &api.MockCompleter{Response: "Go is a programming language."},
		dir:     t.TempDir(),
	}
	t.Setenv("GEMINI_API_KEY", "test-key-1234")
	t.Setenv("GEMINICHAT_LOGGING_FILE", filepath.Join(e.dir, "geminichat.log"))

	e.deps = &Dependencies{
		NewCompleter: func(cfg config.Config, _ zerolog.Logger) (api.Completer, error) {
			e.completerCfg = cfg
			return e.gateway, nil
		},
		RunChat: func(_ api.Completer, label string, opts ...tui.Option) error {
			e.chatCalls++
			e.chatLabel = label
			e.chatOpts = len(opts)
			return nil
		},
		CopyToClipboard: func(text string) error {
			e.copied = append(e.copied, text)
			return nil
		},
		StdinIsPipe:   func() bool { return false },
		TerminalWidth: func() int { return 100 },
		Stdin:         strings.NewReader(""),
		Stdout:        e.stdout,
		Stderr:        e.stderr,
	}
	return e
}

func (e *testEnv) configPath() string {
	return filepath.Join(e.dir, "config.json")
}

// run executes the root command with --config pointing into the temp dir
func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(append(args, "--config="+e.configPath()))
	return cmd.Execute()
}

// syncBuffer is written by the spinner goroutine and read by the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ io.Writer = (*syncBuffer)(nil)
