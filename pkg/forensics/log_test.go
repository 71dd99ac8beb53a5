package forensics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_WritesOneJSONLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log, err := Open(path)
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Append(Record{
		Timestamp:  time.Now(),
		EventType:  EventDraft,
		InjectID:   "INJ-001",
		ScenarioID: "SCN-001",
		Message:    "draft generated",
	}))
	require.NoError(t, log.Append(Record{
		Timestamp:  time.Now(),
		EventType:  EventCritic,
		InjectID:   "INJ-001",
		ScenarioID: "SCN-001",
		Message:    "rejected: temporal ordering violation",
		Details:    map[string]any{"attempt": 1},
	}))
	require.NoError(t, log.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 2)

	var first Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, EventDraft, first.EventType)
	assert.Equal(t, "INJ-001", first.InjectID)

	var second Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, EventCritic, second.EventType)
	assert.Equal(t, "rejected: temporal ordering violation", second.Message)
}

func TestAppend_NeverTruncatesExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log1.Append(Record{EventType: EventDraft, ScenarioID: "SCN-001", Message: "first"}))
	require.NoError(t, log1.Close())

	log2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log2.Append(Record{EventType: EventDraft, ScenarioID: "SCN-001", Message: "second"}))
	require.NoError(t, log2.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
}

func TestAppend_ConcurrentWritersDoNotInterleaveLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log, err := Open(path)
	require.NoError(t, err)
	defer log.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = log.Append(Record{EventType: EventStateUpdate, ScenarioID: "SCN-001", Message: "update"})
		}(i)
	}
	wg.Wait()
	require.NoError(t, log.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 20)
	for _, line := range lines {
		var r Record
		assert.NoError(t, json.Unmarshal([]byte(line), &r))
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}
