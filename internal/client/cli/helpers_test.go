package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/config"
	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/devapi"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform/platformtest"
	"github.com/stretchr/testify/require"
)

// switchPinger reports the API as down while down is set, whatever the
// server actually does.
type switchPinger struct {
	down atomic.Bool
	next func(ctx context.Context) error
}

func (p *switchPinger) Ping(ctx context.Context) error {
	if p.down.Load() {
		return errors.New("network down")
	}
	return p.next(ctx)
}

type cliFixture struct {
	cfg      *config.Config
	api      *httptest.Server
	dbPath   string
	pinger   *switchPinger
	recorder *platformtest.Recorder
	out      *bytes.Buffer
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	api := httptest.NewServer(devapi.NewServer("", []byte("cli-secret"), time.Hour, logging.Nop()).Handler())
	t.Cleanup(api.Close)

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = api.URL + "/v1"
	cfg.DatabasePath = filepath.Join(dir, "journify.db")
	cfg.PhotoDir = filepath.Join(dir, "photos")

	return &cliFixture{
		cfg:      cfg,
		api:      api,
		dbPath:   cfg.DatabasePath,
		pinger:   &switchPinger{},
		recorder: &platformtest.Recorder{},
		out:      &bytes.Buffer{},
	}
}

// app opens a fresh App over the fixture database; input feeds prompts.
func (f *cliFixture) app(t *testing.T, input string) *App {
	t.Helper()
	store, err := localstore.Open(context.Background(), f.cfg.DatabasePath)
	require.NoError(t, err)

	a := newApp(f.cfg, logging.Nop(), store, f.pinger, f.recorder, strings.NewReader(input), f.out)
	f.pinger.next = a.gateway.Ping
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// factory builds Apps for cobra runs from the config cobra loaded.
func (f *cliFixture) factory(t *testing.T) AppFactory {
	return func(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
		store, err := localstore.Open(ctx, c.DatabasePath)
		if err != nil {
			return nil, err
		}
		a := newApp(c, logging.Nop(), store, f.pinger, f.recorder, in, out)
		f.pinger.next = a.gateway.Ping
		return a, nil
	}
}

// run executes one CLI invocation and returns its output.
func (f *cliFixture) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	args = append(args, "--api", f.cfg.APIBaseURL, "--db", f.cfg.DatabasePath, "--photos", f.cfg.PhotoDir)
	cmd := NewRootCmd(args, strings.NewReader(input), &out, f.factory(t))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *cliFixture) signUp(t *testing.T) {
	t.Helper()
	_, err := f.run(t, "", "register", "--name", "Dimas", "--email", "dimas@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = f.run(t, "", "login", "--email", "dimas@example.com", "--password", "secret123")
	require.NoError(t, err)
}
