package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/client/session"
	"github.com/dmitrijs2005/cupid/internal/logging"
	"golang.org/x/text/language"
)

// Session is the part of session.Manager the CLI drives.
type Session interface {
	State() session.State
	Subscribe() (<-chan session.State, func())
	DismissError()
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, in session.RegisterInput) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) (bool, error)
}

// MatchLister reads the locally cached matches of a user.
type MatchLister interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Match, error)
}

type Option func(*App)

// WithMatches enables the "matches" command.
func WithMatches(m MatchLister) Option {
	return func(a *App) { a.matches = m }
}

type App struct {
	session Session
	matches MatchLister
	locale  language.Tag
	logger  logging.Logger
	reader  *bufio.Reader

	outMu sync.Mutex
	out   io.Writer
}

func NewApp(s Session, locale language.Tag, logger logging.Logger, in io.Reader, out io.Writer, opts ...Option) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		session: s,
		locale:  locale,
		logger:  logger.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run starts the alert watcher and the REPL. It returns when the user exits,
// input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	states, unsubscribe := a.session.Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watchAlerts(ctx, states)
	}()

	a.printf("Welcome to Cupid (type 'help' for commands)\n")
	runREPL(ctx, a, a.status, a.reader)

	cancel()
	wg.Wait()
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated
}

// status renders the prompt prefix, for example "(Li, authenticated)".
func (a *App) status() string {
	st := a.session.State()
	s := st.Status.String()
	if st.CurrentUser != nil && st.CurrentUser.Name != "" {
		s = st.CurrentUser.Name + ", " + s
	}
	if st.Loading {
		s += ", busy"
	}
	return "(" + s + ")"
}

// watchAlerts prints every new LastError once and dismisses it.
func (a *App) watchAlerts(ctx context.Context, states <-chan session.State) {
	shown := ""
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if st.LastError == "" {
				shown = ""
				continue
			}
			if st.LastError == shown {
				continue
			}
			shown = st.LastError
			a.printf("! %s\n", st.LastError)
			a.session.DismissError()
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// writer serializes prompt output with alerts printed by the watcher.
func (a *App) writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		a.outMu.Lock()
		defer a.outMu.Unlock()
		return a.out.Write(p)
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
