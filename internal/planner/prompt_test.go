package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInstructions(t *testing.T) {
	system, err := systemInstructions()
	require.NoError(t, err)

	assert.Contains(t, system, "senior software engineer")
	assert.Contains(t, system, "get_github_issue")
	assert.Contains(t, system, "list_repo_files_gh")
	assert.Contains(t, system, "get_repo_file_gh")
	assert.Contains(t, system, "firecrawl_search")
	assert.Contains(t, system, "Step-by-step implementation plan")
}

func TestUserPrompt(t *testing.T) {
	user, err := userPrompt(Request{Repo: "acme/rocket", IssueNumber: 42})
	require.NoError(t, err)

	assert.Contains(t, user, "issue #42")
	assert.Contains(t, user, "repo 'acme/rocket'")
}
