package drcscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redactyl/drcscan/internal/git"
	"github.com/redactyl/drcscan/internal/types"
)

const uploadSchemaVersion = "1"

type uploadEnvelope struct {
	Tool    string             `json:"tool"`
	Version string             `json:"version"`
	Schema  string             `json:"schema_version"`
	Repo    string             `json:"repo,omitempty"`
	Commit  string             `json:"commit,omitempty"`
	Branch  string             `json:"branch,omitempty"`
	Results []types.UnitResult `json:"results"`
}

func uploadResults(rootPath, url, token string, noMeta bool, results []types.UnitResult) error {
	if len(results) == 0 {
		return nil
	}
	env := uploadEnvelope{Tool: "drcscan", Version: version, Schema: uploadSchemaVersion, Results: results}
	if !noMeta {
		// Best-effort git metadata
		env.Repo, env.Commit, env.Branch = git.RepoMetadata(rootPath)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}
