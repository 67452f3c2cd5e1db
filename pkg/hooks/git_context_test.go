package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit returns canned output per git subcommand.
func fakeGit(outputs map[string]string, errs map[string]error) GitRunner {
	return func(ctx context.Context, args ...string) (string, error) {
		key := args[0]
		if err, ok := errs[key]; ok {
			return "", err
		}
		return outputs[key], nil
	}
}

func decodeSessionContext(t *testing.T, output string) string {
	t.Helper()
	var envelope sessionContextOutput
	require.NoError(t, json.Unmarshal([]byte(output), &envelope))
	assert.Equal(t, "SessionStart", envelope.HookSpecificOutput.HookEventName)
	return envelope.HookSpecificOutput.AdditionalContext
}

func TestGitContext_OutsideRepository(t *testing.T) {
	hook := &GitContextHook{git: fakeGit(nil, map[string]error{
		"rev-parse": errors.New("fatal: not a git repository"),
	})}

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, DecisionAllow, result.Decision)
	assert.Equal(t, "Not in a git repository\n", result.Output)
}

func TestGitContext_FullRepository(t *testing.T) {
	hook := &GitContextHook{git: fakeGit(map[string]string{
		"rev-parse": "true",
		"branch":    "feat/login",
		"rev-list":  "2\t1",
		"log":       "abc1234 add login form\ndef5678 wire session store",
		"status":    " M pkg/auth/session.go",
	}, nil)}

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, DecisionAllow, result.Decision)
	additional := decodeSessionContext(t, result.Output)
	assert.Contains(t, additional, "Branch: feat/login")
	assert.Contains(t, additional, "Ahead/behind upstream: 2\t1")
	assert.Contains(t, additional, "abc1234 add login form")
	assert.Contains(t, additional, " M pkg/auth/session.go")
}

func TestGitContext_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		outputs  map[string]string
		errs     map[string]error
		expected string
	}{
		{
			name:     "detached HEAD",
			outputs:  map[string]string{"rev-parse": "true"},
			expected: "Branch: detached HEAD",
		},
		{
			name:     "no upstream",
			outputs:  map[string]string{"rev-parse": "true", "branch": "main"},
			errs:     map[string]error{"rev-list": errors.New("no upstream configured")},
			expected: "Ahead/behind upstream: 0\t0",
		},
		{
			name:     "no commits",
			outputs:  map[string]string{"rev-parse": "true", "branch": "main"},
			errs:     map[string]error{"log": errors.New("does not have any commits yet")},
			expected: "Recent commits:\nnone",
		},
		{
			name:     "clean tree",
			outputs:  map[string]string{"rev-parse": "true", "branch": "main"},
			expected: "Working tree:\nclean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := &GitContextHook{git: fakeGit(tt.outputs, tt.errs)}

			result := hook.Run(context.Background(), &Payload{})

			assert.Equal(t, DecisionAllow, result.Decision)
			additional := decodeSessionContext(t, result.Output)
			assert.Contains(t, additional, tt.expected)
		})
	}
}

func TestGitContext_AngleBracketsUnescaped(t *testing.T) {
	hook := &GitContextHook{git: fakeGit(map[string]string{
		"rev-parse": "true",
		"branch":    "main",
		"log":       "abc1234 Merge <upstream> into main",
	}, nil)}

	result := hook.Run(context.Background(), &Payload{})

	assert.Contains(t, result.Output, "<upstream>")
	assert.NotContains(t, result.Output, `\u003c`)
}

func TestGitContext_OutputIsSingleJSONLine(t *testing.T) {
	hook := &GitContextHook{git: fakeGit(map[string]string{
		"rev-parse": "true",
		"branch":    "main",
	}, nil)}

	result := hook.Run(context.Background(), &Payload{})

	require.True(t, strings.HasSuffix(result.Output, "\n"))
	assert.NotContains(t, strings.TrimSuffix(result.Output, "\n"), "\n")
}
