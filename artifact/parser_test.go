package artifact

import (
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collectEntries(t *testing.T, p Parser, path string) []Entry {
	t.Helper()
	seq, err := p.Parse(path)
	require.NoError(t, err)

	var entries []Entry
	for entry, err := range seq {
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	return entries
}

func TestDetect_TextLog(t *testing.T) {
	header := []byte("2024-03-10 12:00:01 sshd[441]: Accepted password for root\n")
	p, err := Detect(header)
	require.NoError(t, err)
	assert.Equal(t, "Text Log File", p.Type())
}

func TestDetect_JSONLines(t *testing.T) {
	header := []byte(`{"timestamp": "2024-03-10T12:00:01Z", "event": "logon"}` + "\n")
	p, err := Detect(header)
	require.NoError(t, err)
	assert.Equal(t, "JSON Lines Event Stream", p.Type())
}

func TestDetect_Binary(t *testing.T) {
	header := []byte{0x4d, 0x5a, 0x00, 0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x00}
	_, err := Detect(header)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoParser)
}

func TestDetect_EmptyHeader(t *testing.T) {
	_, err := Detect(nil)
	assert.ErrorIs(t, err, ErrEmptyHeader)
}

func TestRegister_CustomParserWins(t *testing.T) {
	custom := &magicParser{}
	Register(custom)

	p, err := Detect([]byte("MAGIC\x00\x00payload"))
	require.NoError(t, err)
	assert.Equal(t, "Magic Test Format", p.Type())
}

type magicParser struct{}

func (m *magicParser) Type() string { return "Magic Test Format" }
func (m *magicParser) Identify(header []byte) bool {
	return len(header) > 5 && string(header[:5]) == "MAGIC"
}
func (m *magicParser) Parse(path string) (iter.Seq2[Entry, error], error) {
	return func(yield func(Entry, error) bool) {}, nil
}

func TestTextLineParser_Parse(t *testing.T) {
	content := "2024-03-10 12:00:01 sshd[441]: Accepted password for root\n" +
		"\n" +
		"no timestamp on this line\n" +
		"2024-03-10T12:05:09Z scheduled task \\Temp\\update registered\n"
	path := writeTempFile(t, "auth.log", content)

	entries := collectEntries(t, &TextLineParser{}, path)
	require.Len(t, entries, 3)

	assert.Equal(t, "2024-03-10 12:00:01 sshd[441]: Accepted password for root", entries[0].Text)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC), entries[0].Timestamp)

	assert.Equal(t, "no timestamp on this line", entries[1].Text)
	assert.False(t, entries[1].HasTimestamp())

	assert.Equal(t, time.Date(2024, 3, 10, 12, 5, 9, 0, time.UTC), entries[2].Timestamp)
}

func TestJSONLinesParser_Parse(t *testing.T) {
	content := `{"timestamp": "2024-03-10T12:00:01Z", "event_id": 4688, "image": "powershell.exe"}` + "\n" +
		"not json at all\n" +
		`{"utc": 1710072301, "event": "file created"}` + "\n"
	path := writeTempFile(t, "events.jsonl", content)

	seq, err := (&JSONLinesParser{}).Parse(path)
	require.NoError(t, err)

	var entries []Entry
	var entryErrs int
	for entry, err := range seq {
		if err != nil {
			entryErrs++
			continue
		}
		entries = append(entries, entry)
	}

	// Malformed line is a skippable per-entry error, not fatal
	assert.Equal(t, 1, entryErrs)
	require.Len(t, entries, 2)

	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC), entries[0].Timestamp)
	assert.Equal(t, "4688", entries[0].Meta["event_id"])
	assert.Equal(t, "powershell.exe", entries[0].Meta["image"])
	assert.Contains(t, entries[0].Text, "image=powershell.exe")

	// Numeric epoch timestamp
	assert.True(t, entries[1].HasTimestamp())
	assert.Equal(t, int64(1710072301), entries[1].Timestamp.Unix())
}

func TestTextLineParser_Identify(t *testing.T) {
	assert.True(t, (&TextLineParser{}).Identify([]byte("plain log line\nanother line\n")))
	assert.False(t, (&TextLineParser{}).Identify([]byte{0x00, 0x01, 0x02, 0xff, 0x00, 0x01, 0x02, 0xff}))
}

func TestJSONLinesParser_Identify(t *testing.T) {
	p := &JSONLinesParser{}
	assert.True(t, p.Identify([]byte(`{"a": 1}`+"\n")))
	assert.False(t, p.Identify([]byte("plain text\n")))
	assert.False(t, p.Identify([]byte("[1, 2, 3]\n")))
}

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			name: "iso with zone",
			line: "prefix 2024-03-10T12:00:01Z suffix",
			want: time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC),
		},
		{
			name: "space separated no zone",
			line: "2024-03-10 12:00:01 message",
			want: time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC),
		},
		{
			name: "fractional seconds",
			line: "2024-03-10T12:00:01.500Z message",
			want: time.Date(2024, 3, 10, 12, 0, 1, 500000000, time.UTC),
		},
		{
			name: "none",
			line: "no time here",
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ExtractTimestamp(tt.line)))
		})
	}
}

func TestParseTimestamp_DateOnly(t *testing.T) {
	got := ParseTimestamp("2024-01-15")
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestFileInfo(t *testing.T) {
	path := writeTempFile(t, "sample.log", "hello evidence\n")

	info, header, err := FileInfo(path)
	require.NoError(t, err)

	assert.Equal(t, int64(15), info.Size)
	assert.Equal(t, []byte("hello evidence\n"), header)
	assert.Len(t, info.MD5, 32)
	assert.Len(t, info.SHA1, 40)
	assert.Len(t, info.SHA256, 64)
}

func TestFileInfo_MissingFile(t *testing.T) {
	_, _, err := FileInfo(filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
}
