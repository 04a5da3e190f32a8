package sysclip

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
)

func TestCopy(t *testing.T) {
	if clipboard.Unsupported {
		msg := Copy("path", "/tmp/a")().(CopiedMsg)
		assert.ErrorIs(t, msg.Err, ErrUnsupported)
		return
	}

	var got string
	orig := writeAll
	t.Cleanup(func() { writeAll = orig })

	writeAll = func(s string) error {
		got = s
		return nil
	}
	msg := Copy("path", "/tmp/a")().(CopiedMsg)
	assert.NoError(t, msg.Err)
	assert.Equal(t, "path", msg.Label)
	assert.Equal(t, "/tmp/a", got)

	writeAll = func(string) error { return errors.New("xclip failed") }
	msg = Copy("name", "a")().(CopiedMsg)
	assert.EqualError(t, msg.Err, "xclip failed")
}
