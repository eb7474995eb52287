package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rootpulse/pulse-cli/internal/client/api"
	"github.com/rootpulse/pulse-cli/internal/client/config"
	"github.com/rootpulse/pulse-cli/internal/client/models"
	"github.com/rootpulse/pulse-cli/internal/client/session"
	"github.com/rootpulse/pulse-cli/internal/client/storage"
	"github.com/rootpulse/pulse-cli/internal/filex"
	"github.com/rootpulse/pulse-cli/internal/logging"
)

// portalAPI is the part of the portal client the command handlers use
// directly, i.e. everything that is not session lifecycle.
type portalAPI interface {
	UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (models.User, error)
	ServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)
	Services(ctx context.Context, category models.ServiceCategory) ([]models.Service, error)
	RequestService(ctx context.Context, serviceID, notes string) (models.ServiceRequest, error)
	MyRequests(ctx context.Context) ([]models.ServiceRequest, error)
	CurrentMembership(ctx context.Context) (models.Membership, error)
	Plans(ctx context.Context) ([]models.MembershipPlan, error)
	UpgradePlan(ctx context.Context, planID string) (models.Membership, error)
}

// sessionManager is the session surface the CLI drives.
type sessionManager interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, identifier, password string, remember bool) error
	Register(ctx context.Context, data session.RegisterData) error
	Logout(ctx context.Context)
	UpdateUser(ctx context.Context, patch models.UserPatch)
	RefreshProfile(ctx context.Context) error
}

type App struct {
	config  *config.Config
	log     logging.Logger
	api     portalAPI
	session sessionManager
	store   *storage.SQLiteStore
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires config, storage, the API client, and the session manager
// into a runnable CLI application. The durable session database lives in
// the configured data dir.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	store, err := storage.Open(ctx, filepath.Join(dataDir, "pulse.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	apiClient := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	sess := session.New(ctx, apiClient, store, storage.NewMemoryStore(), log)

	return &App{
		config:  cfg,
		log:     log,
		api:     apiClient,
		session: sess,
		store:   store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to the RootPulse concierge CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// Close releases the durable store. Safe to call once.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn(context.Background(), "failed to close session store", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated
}

// status builds the prompt suffix, e.g. "(user gold)".
func (a *App) status() string {
	snap := a.session.Snapshot()
	if snap.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", snap.User.Username, snap.User.MembershipTier)
}
