package hooks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tmuxCall struct {
	name string
	args []string
}

func newTmuxTestHook(tmuxEnv string, notifySendInstalled bool) (*TmuxNotifyHook, *[]tmuxCall, *bytes.Buffer) {
	calls := &[]tmuxCall{}
	bell := &bytes.Buffer{}
	hook := &TmuxNotifyHook{
		getenv: func(key string) string {
			if key == "TMUX" {
				return tmuxEnv
			}
			return ""
		},
		lookPath: func(name string) (string, error) {
			if notifySendInstalled {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
		run: func(ctx context.Context, name string, args ...string) error {
			*calls = append(*calls, tmuxCall{name: name, args: args})
			return nil
		},
		bell: bell,
	}
	return hook, calls, bell
}

func TestTmuxNotify_OutsideTmux(t *testing.T) {
	hook, calls, bell := newTmuxTestHook("", true)

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, DecisionAllow, result.Decision)
	assert.Equal(t, "{}\n", result.Output)
	assert.Empty(t, *calls, "no subprocess may run outside tmux")
	assert.Empty(t, bell.String())
}

func TestTmuxNotify_InsideTmux(t *testing.T) {
	hook, calls, bell := newTmuxTestHook("/tmp/tmux-1000/default,1234,0", true)

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, "{}\n", result.Output)
	require.Len(t, *calls, 2)
	assert.Equal(t, "tmux", (*calls)[0].name)
	assert.Equal(t, []string{"set-window-option", "monitor-bell", "on"}, (*calls)[0].args)
	assert.Equal(t, "notify-send", (*calls)[1].name)
	assert.Equal(t, "\a", bell.String())
}

func TestTmuxNotify_NotifySendMissing(t *testing.T) {
	hook, calls, _ := newTmuxTestHook("/tmp/tmux-1000/default,1234,0", false)

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, "{}\n", result.Output)
	require.Len(t, *calls, 1)
	assert.Equal(t, "tmux", (*calls)[0].name)
}

func TestTmuxNotify_SubprocessFailureStillPrintsJSON(t *testing.T) {
	hook, _, _ := newTmuxTestHook("/tmp/tmux-1000/default,1234,0", true)
	hook.run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("tmux server gone")
	}

	result := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, DecisionAllow, result.Decision)
	assert.True(t, strings.HasPrefix(result.Output, "{}"))
}
