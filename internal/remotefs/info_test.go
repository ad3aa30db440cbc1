package remotefs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenetaranov/ferry/internal/connector/conntest"
)

func TestFileInfo(t *testing.T) {
	fake := conntest.New().
		RespondOK("test -f '/data/a.txt'", "").
		RespondOK(`stat -c "%s %Y" '/data/a.txt'`, "1024 1700000000\n")

	c := New(fake)

	info, err := c.FileInfo(t.Context(), "/data/a.txt")
	require.NoError(t, err)

	assert.Equal(t, "/data/a.txt", info.Path)
	assert.Equal(t, uint64(1024), info.SizeBytes)
	assert.Equal(t, time.Unix(1700000000, 0), info.ModTime)
	assert.False(t, info.IsDir)
}

func TestFileInfoNotFoundWhenAbsent(t *testing.T) {
	fake := conntest.New().
		RespondFail("test -f '/data/missing'", 1, "")

	c := New(fake)

	_, err := c.FileInfo(t.Context(), "/data/missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileInfoNotFoundOnDirectory(t *testing.T) {
	// a directory fails the -f probe, so no stat is ever issued
	fake := conntest.New().
		RespondFail("test -f '/data/logs'", 1, "")

	c := New(fake)

	_, err := c.FileInfo(t.Context(), "/data/logs")
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, fake.Executed(`stat -c "%s %Y" '/data/logs'`))
}

func TestDirInfo(t *testing.T) {
	fake := conntest.New().
		RespondOK("test -d '/data/logs'", "").
		RespondOK("du -sb '/data/logs'", "40960\t/data/logs\n").
		RespondOK(`stat -c "%Y" '/data/logs'`, "1700000000\n")

	c := New(fake)

	info, err := c.DirInfo(t.Context(), "/data/logs")
	require.NoError(t, err)

	assert.Equal(t, uint64(40960), info.SizeBytes)
	assert.Equal(t, time.Unix(1700000000, 0), info.ModTime)
	assert.True(t, info.IsDir)
}

func TestDirInfoNotFoundOnFile(t *testing.T) {
	fake := conntest.New().
		RespondFail("test -d '/data/a.txt'", 1, "")

	c := New(fake)

	_, err := c.DirInfo(t.Context(), "/data/a.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

// FileInfo and DirInfo are mutually exclusive: for any path at most one
// succeeds, and Stat succeeds whenever either does.
func TestInfoMutualExclusion(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		isFile  bool
		isDir   bool
		wantDir bool
	}{
		{"regular file", "/data/a.txt", true, false, false},
		{"directory", "/data/logs", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := conntest.New().
				RespondOK("test -e "+shellQuote(tt.path), "").
				RespondOK("du -sb "+shellQuote(tt.path), "512\t"+tt.path+"\n").
				RespondOK(`stat -c "%s %Y" `+shellQuote(tt.path), "512 1700000000\n").
				RespondOK(`stat -c "%Y" `+shellQuote(tt.path), "1700000000\n")

			if tt.isFile {
				fake.RespondOK("test -f "+shellQuote(tt.path), "")
				fake.RespondFail("test -d "+shellQuote(tt.path), 1, "")
			} else {
				fake.RespondFail("test -f "+shellQuote(tt.path), 1, "")
				fake.RespondOK("test -d "+shellQuote(tt.path), "")
			}

			c := New(fake)
			ctx := t.Context()

			_, fileErr := c.FileInfo(ctx, tt.path)
			_, dirErr := c.DirInfo(ctx, tt.path)

			if tt.isFile {
				require.NoError(t, fileErr)
				require.ErrorIs(t, dirErr, ErrNotFound)
			} else {
				require.ErrorIs(t, fileErr, ErrNotFound)
				require.NoError(t, dirErr)
			}

			info, err := c.Stat(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, info.IsDir)
		})
	}
}

func TestStatNotFoundOnlyWhenAbsent(t *testing.T) {
	fake := conntest.New().
		RespondFail("test -e '/data/missing'", 1, "")

	c := New(fake)

	_, err := c.Stat(t.Context(), "/data/missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseStat(t *testing.T) {
	size, mtime, err := parseStat("2048 1700000123\n")
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), size)
	assert.Equal(t, time.Unix(1700000123, 0), mtime)

	_, _, err = parseStat("garbage")
	require.Error(t, err)

	_, _, err = parseStat("")
	require.Error(t, err)
}

func TestDirInfoBadDuOutput(t *testing.T) {
	fake := conntest.New().
		RespondOK("test -d '/data/logs'", "").
		RespondOK("du -sb '/data/logs'", "not-a-number\t/data/logs\n")

	c := New(fake)

	_, err := c.DirInfo(t.Context(), "/data/logs")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}
