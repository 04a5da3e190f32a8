package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	report *Report
	err    error
}

func (f fakeSource) Status(context.Context, string) (*Report, error) {
	return f.report, f.err
}

func TestRefresher(t *testing.T) {
	src := fakeSource{report: &Report{Root: "/r", Files: map[string]Status{"a": StatusModified}}}
	r := NewRefresher(src, 0)

	first := r.Refresh("/r")
	second := r.Refresh("/r")
	assert.True(t, r.Pending())

	msg2, ok := second().(RefreshedMsg)
	require.True(t, ok)
	msg1, ok := first().(RefreshedMsg)
	require.True(t, ok)

	assert.True(t, r.Accept(msg2), "newest result applies")
	assert.False(t, r.Accept(msg1), "older result arriving late is discarded")
	assert.False(t, r.Pending())
	assert.Equal(t, StatusModified, msg2.Cache.Lookup("/r/a"))
}

func TestRefresherNoRepo(t *testing.T) {
	r := NewRefresher(fakeSource{err: ErrNotRepo}, 0)
	msg := r.Refresh("/tmp")().(RefreshedMsg)

	assert.NoError(t, msg.Err)
	require.NotNil(t, msg.Cache)
	assert.Equal(t, 0, msg.Cache.Len())
	assert.Equal(t, StatusNone, msg.Cache.Lookup("/tmp/x"))
}

func TestRefresherError(t *testing.T) {
	r := NewRefresher(fakeSource{err: errors.New("boom")}, 0)
	msg := r.Refresh("/r")().(RefreshedMsg)

	assert.Error(t, msg.Err)
	assert.Nil(t, msg.Cache)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &ShellSource{}, NewSource(BackendShell))
	assert.IsType(t, &GoGitSource{}, NewSource(BackendGoGit))
	assert.NotNil(t, NewSource(BackendAuto))
}
