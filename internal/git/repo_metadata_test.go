package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/abap-payroll.git"},
	})
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	hash, err := wt.Commit("init", &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author:            &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestRepoMetadata(t *testing.T) {
	dir, commit := initRepo(t)

	repo, gotCommit, branch := RepoMetadata(dir)
	assert.Equal(t, "acme/abap-payroll", repo)
	assert.Equal(t, commit, gotCommit)
	assert.Equal(t, "master", branch)
}

func TestRepoMetadata_Subdirectory(t *testing.T) {
	dir, commit := initRepo(t)
	sub := filepath.Join(dir, "src", "zpay")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, gotCommit, _ := RepoMetadata(sub)
	assert.Equal(t, "acme/abap-payroll", repo)
	assert.Equal(t, commit, gotCommit)
}

func TestRepoMetadata_NotARepository(t *testing.T) {
	repo, commit, branch := RepoMetadata(t.TempDir())
	assert.Empty(t, repo+commit+branch)
}

func TestRepoMetadata_NotADirectory(t *testing.T) {
	repo, commit, branch := RepoMetadata(filepath.Join(t.TempDir(), "missing"))
	assert.Empty(t, repo+commit+branch)
}

func TestShortRemote(t *testing.T) {
	cases := map[string]string{
		"git@github.com:acme/abap.git":        "acme/abap",
		"https://github.com/acme/abap.git":    "acme/abap",
		"https://git.example.com/sap/hr/abap": "sap/hr/abap",
		"":                                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, shortRemote(in), in)
	}
}
