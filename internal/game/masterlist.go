package game

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrNotGitRepo    = errors.New("not a git repository")
	ErrFFNotPossible = errors.New("fast-forward not possible, masterlist has local edits")
	ErrNoRemote      = errors.New("no masterlist repository configured")
)

// RepoMissing is reported as revision and date when the masterlist is not
// tracked by git.
const RepoMissing = "Unknown: Git repository missing"

const editedSuffix = " (edited)"

// Provenance identifies the masterlist revision in use
type Provenance struct {
	Revision string `json:"revision"`
	Date     string `json:"date"`
}

// ReadProvenance returns the HEAD commit of the repository holding the
// masterlist. Both fields get an " (edited)" suffix when the masterlist has
// uncommitted changes.
func ReadProvenance(repoPath string) Provenance {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return Provenance{Revision: RepoMissing, Date: RepoMissing}
	}

	head, err := repo.Head()
	if err != nil {
		return Provenance{Revision: RepoMissing, Date: RepoMissing}
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return Provenance{Revision: RepoMissing, Date: RepoMissing}
	}

	p := Provenance{
		Revision: head.Hash().String()[:8],
		Date:     commit.Committer.When.Format("2006-01-02"),
	}

	if masterlistEdited(repo) {
		p.Revision += editedSuffix
		p.Date += editedSuffix
	}
	return p
}

func masterlistEdited(repo *git.Repository) bool {
	worktree, err := repo.Worktree()
	if err != nil {
		return false
	}
	status, err := worktree.Status()
	if err != nil {
		return false
	}
	fs, ok := status[MasterlistFile]
	if !ok {
		return false
	}
	return fs.Worktree != git.Unmodified && fs.Worktree != git.Untracked
}

// UpdateMasterlist clones the masterlist repository into localPath, or
// fast-forwards an existing clone. It reports whether anything changed.
// progress can be nil to disable progress output.
func UpdateMasterlist(repoURL, localPath string, progress io.Writer) (bool, error) {
	if repoURL == "" {
		return false, ErrNoRemote
	}

	if _, err := os.Stat(filepath.Join(localPath, ".git")); os.IsNotExist(err) {
		if err := os.MkdirAll(localPath, 0755); err != nil {
			return false, err
		}
		repo, err := git.PlainInit(localPath, false)
		if err != nil {
			return false, fmt.Errorf("failed to initialise masterlist repository: %w", err)
		}
		if _, err := repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{repoURL},
		}); err != nil {
			return false, fmt.Errorf("failed to add remote: %w", err)
		}
	}

	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotGitRepo, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	if masterlistEdited(repo) {
		return false, ErrFFNotPossible
	}

	err = repo.Fetch(&git.FetchOptions{
		RemoteName: "origin",
		Progress:   progress,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return false, fmt.Errorf("failed to fetch: %w", err)
	}

	remoteRef, branchName, err := remoteHead(repo)
	if err != nil {
		return false, err
	}

	head, err := repo.Head()
	if err == nil && head.Hash() == remoteRef.Hash() {
		return false, nil
	}

	// Point the local branch and HEAD at the remote commit before resetting.
	branch := plumbing.NewBranchReferenceName(branchName)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(branch, remoteRef.Hash())); err != nil {
		return false, fmt.Errorf("failed to update branch: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)); err != nil {
		return false, fmt.Errorf("failed to update HEAD: %w", err)
	}

	err = worktree.Reset(&git.ResetOptions{
		Commit: remoteRef.Hash(),
		Mode:   git.HardReset,
	})
	if err != nil {
		return false, fmt.Errorf("failed to fast-forward: %w", err)
	}
	return true, nil
}

func remoteHead(repo *git.Repository) (*plumbing.Reference, string, error) {
	var lastErr error
	for _, branch := range []string{"main", "master"} {
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
		if err == nil {
			return ref, branch, nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("failed to find remote branch: %w", lastErr)
}
