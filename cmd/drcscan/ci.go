package drcscan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template for your provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, content, err := ciTemplate(provider)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | azure")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}

func ciTemplate(provider string) (string, string, error) {
	switch provider {
	case "github":
		return ".github/workflows/drcscan.yml", `name: drcscan
on: [push, pull_request]
jobs:
  scan:
    runs-on: ubuntu-latest
    permissions:
      security-events: write
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25'
      - run: go install github.com/redactyl/drcscan@latest
      - run: drcscan scan --sarif --fail-on any > drcscan.sarif
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: drcscan.sarif
`, nil
	case "gitlab":
		return ".gitlab-ci.yml", `stages: [scan]
drcscan:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/redactyl/drcscan@latest
    - drcscan scan --json --fail-on any | tee drcscan-findings.json
  artifacts:
    when: always
    paths:
      - drcscan-findings.json
`, nil
	case "azure":
		return "azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/redactyl/drcscan@latest
    $(go env GOPATH)/bin/drcscan scan --json --fail-on any | tee drcscan-findings.json
  displayName: 'drcscan'
- publish: drcscan-findings.json
  artifact: drcscan-findings
  condition: succeededOrFailed()
`, nil
	default:
		return "", "", fmt.Errorf("unknown --provider. Supported: github, gitlab, azure")
	}
}
