package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.plog")

	for _, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		require.NoError(t, err)
		logger.Log(Event{Timestamp: time.Now(), SessionID: id})
		require.NoError(t, logger.Close())
	}

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var ids []string
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, ev.SessionID)
	}
	assert.Equal(t, []string{"first", "second"}, ids)
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.plog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				logger.Log(Event{Timestamp: time.Now(), Layer: LayerDevice})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 200, count)
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "test.plog"))
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	// Logging after close is silently ignored.
	logger.Log(Event{})
}
