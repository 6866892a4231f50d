package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/bnema/lootctl/internal/conflict"
	"github.com/bnema/lootctl/internal/game"
	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/resolver"
	"github.com/bnema/lootctl/internal/session"
)

// Shell is the desktop side of the router: file manager, search, clipboard
// and window title.
type Shell interface {
	OpenReadme() error
	OpenLogLocation() error
	Find(text string) error
	StopFinding() error
	CopyText(text string) error
	SetTitle(title string)
}

// Request is the structured form of a query
type Request struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// Router dispatches queries to the session, resolver, conflict detector and
// shell. It is not safe for concurrent use.
type Router struct {
	version  string
	session  *session.Session
	resolver *resolver.Resolver
	detector *conflict.Detector
	shell    Shell
	log      *log.Logger
}

// NewRouter creates a router. version is reported by getVersion.
func NewRouter(version string, s *session.Session, r *resolver.Resolver, d *conflict.Detector, sh Shell, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if r == nil {
		r = resolver.New(logger)
	}
	if d == nil {
		d = conflict.NewDetector(logger)
	}
	return &Router{
		version:  version,
		session:  s,
		resolver: r,
		detector: d,
		shell:    sh,
		log:      logger,
	}
}

// Handle runs one query. request is either a bare command name or a JSON
// object {"name": ..., "args": [...]}. Failed commands return a *Failure,
// unknown commands ErrUnhandled.
func (r *Router) Handle(request string) (Payload, error) {
	if p, ok, err := r.handleBare(request); ok {
		return p, toFailure(err)
	}

	var req Request
	if err := json.Unmarshal([]byte(request), &req); err != nil {
		r.log.Error("Failed to parse query", "error", err)
		return nil, &Failure{Code: CodeGeneric, Message: err.Error()}
	}

	p, err := r.Dispatch(req)
	return p, toFailure(err)
}

// Dispatch runs a structured query. Only commands taking arguments are
// accepted in this form.
func (r *Router) Dispatch(req Request) (Payload, error) {
	r.log.Debug("Handling query", "name", req.Name, "args", req.Args)

	switch req.Name {
	case "find":
		text, err := arg(req, 0)
		if err != nil {
			return nil, err
		}
		return r.find(text)
	case "changeGame":
		folder, err := arg(req, 0)
		if err != nil {
			return nil, err
		}
		return r.changeGame(folder)
	case "getConflictingPlugins":
		name, err := arg(req, 0)
		if err != nil {
			return nil, err
		}
		return r.conflicts(name)
	case "copyMetadata":
		name, err := arg(req, 0)
		if err != nil {
			return nil, err
		}
		return r.copyMetadata(name)
	case "clearPluginMetadata":
		name, err := arg(req, 0)
		if err != nil {
			return nil, err
		}
		return r.clearPluginMetadata(name)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnhandled, req.Name)
}

func (r *Router) handleBare(name string) (Payload, bool, error) {
	var (
		p   Payload
		err error
	)
	switch name {
	case "openReadme":
		p, err = Empty{}, r.shell.OpenReadme()
	case "openLogLocation":
		p, err = Empty{}, r.shell.OpenLogLocation()
	case "getVersion":
		p = Version(r.version)
	case "getSettings":
		p = Settings(r.session.Settings)
	case "getLanguages":
		p = Languages(session.Languages())
	case "getGameTypes":
		types := make(GameTypes, 0, len(game.Types))
		for _, t := range game.Types {
			types = append(types, t.FolderName())
		}
		p = types
	case "getInstalledGames":
		p = InstalledGames(r.session.InstalledGames())
	case "getGameData":
		p, err = r.gameData()
	case "cancelFind":
		p, err = Empty{}, r.shell.StopFinding()
	case "clearAllMetadata":
		p, err = r.clearAllMetadata()
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return p, true, nil
}

func arg(req Request, i int) (string, error) {
	if i >= len(req.Args) {
		return "", &Failure{
			Code:    CodeGeneric,
			Message: fmt.Sprintf("%s: missing argument %d", req.Name, i+1),
		}
	}
	return req.Args[i], nil
}

func (r *Router) find(text string) (Payload, error) {
	if err := r.shell.StopFinding(); err != nil {
		return nil, err
	}
	if err := r.shell.Find(text); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (r *Router) changeGame(folder string) (Payload, error) {
	if err := r.session.ChangeGame(folder); err != nil {
		return nil, err
	}
	return r.gameData()
}

func (r *Router) gameData() (Payload, error) {
	state, err := r.session.ActiveGame()
	if err != nil {
		return nil, err
	}
	r.shell.SetTitle("LOOT: " + state.Game.Name)

	if err := state.LoadPlugins(true); err != nil {
		return nil, err
	}
	if err := state.LoadLists(); err != nil {
		return nil, err
	}

	return GameData(r.resolver.GameData(state, r.session.Language())), nil
}

func (r *Router) conflicts(name string) (Payload, error) {
	state, err := r.session.ActiveGame()
	if err != nil {
		return nil, err
	}
	if err := state.EnsurePlugins(); err != nil {
		return nil, err
	}
	found, err := r.detector.ConflictsWith(name, state.Plugins, state)
	if err != nil {
		return nil, err
	}
	return Conflicts(found), nil
}

func (r *Router) copyMetadata(name string) (Payload, error) {
	state, err := r.session.ActiveGame()
	if err != nil {
		return nil, err
	}
	if err := state.EnsureLists(); err != nil {
		return nil, err
	}

	meta, ok := state.Masterlist.Find(name)
	if !ok {
		meta = metadata.NewPlugin(name)
	}
	if user, ok := state.Userlist.Find(name); ok {
		meta.MergeMetadata(user)
	}

	text, err := meta.Text()
	if err != nil {
		return nil, err
	}
	if err := r.shell.CopyText(text); err != nil {
		return nil, err
	}
	r.log.Info("Copied metadata to clipboard", "plugin", name, "metadata", text)
	return Empty{}, nil
}

func (r *Router) clearAllMetadata() (Payload, error) {
	state, err := r.session.ActiveGame()
	if err != nil {
		return nil, err
	}
	r.log.Info("Clearing all user metadata", "game", state.Game.Folder)
	state.Userlist.Clear()
	if err := state.SaveUserlist(); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (r *Router) clearPluginMetadata(name string) (Payload, error) {
	state, err := r.session.ActiveGame()
	if err != nil {
		return nil, err
	}
	if err := state.EnsureLists(); err != nil {
		return nil, err
	}
	r.log.Info("Clearing user metadata", "plugin", name)
	if err := state.Userlist.Erase(name); err != nil && !errors.Is(err, metadata.ErrPluginNotFound) {
		return nil, err
	}
	if err := state.SaveUserlist(); err != nil {
		return nil, err
	}
	return Empty{}, nil
}
