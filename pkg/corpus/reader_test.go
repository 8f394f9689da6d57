package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSGML = `<!DOCTYPE lewis SYSTEM "lewis.dtd">
<REUTERS TOPICS="YES" LEWISSPLIT="TRAIN" CGISPLIT="TRAINING-SET" OLDID="5544" NEWID="1">
<DATE>26-FEB-1987 15:01:01.79</DATE>
<TOPICS><D>cocoa</D></TOPICS>
<TEXT>&#2;
<TITLE>BAHIA COCOA REVIEW</TITLE>
<DATELINE>    SALVADOR, Feb 26 - </DATELINE><BODY>Showers continued throughout the week in
the Bahia cocoa zone. Reuter
&#3;</BODY></TEXT>
</REUTERS>
<REUTERS TOPICS="NO" LEWISSPLIT="TRAIN" CGISPLIT="TRAINING-SET" OLDID="5545" NEWID="2">
<DATE>26-FEB-1987 15:02:20.00</DATE>
<TEXT TYPE="BRIEF">&#2;
<TITLE>STANDARD OIL TO FORM FINANCIAL UNIT</TITLE>
&#3;</TEXT>
</REUTERS>
`

func TestParseRecords(t *testing.T) {
	records, err := parseRecords(strings.NewReader(sampleSGML), "sample")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, 1, records[0].NewID)
	require.Equal(t, "BAHIA COCOA REVIEW", records[0].Title)
	require.Contains(t, records[0].Body, "Showers continued throughout the week")
	require.Contains(t, records[0].Text(), "BAHIA COCOA REVIEW Showers")

	require.Equal(t, 2, records[1].NewID)
	require.Equal(t, "STANDARD OIL TO FORM FINANCIAL UNIT", records[1].Title)
	require.Empty(t, records[1].Body)
}

func TestParseRecordsMissingNewID(t *testing.T) {
	src := `<REUTERS TOPICS="NO"><TEXT><TITLE>NO ID</TITLE></TEXT></REUTERS>`
	_, err := parseRecords(strings.NewReader(src), "sample")
	require.ErrorContains(t, err, "missing NEWID")
}

func TestParseRecordsBadNewID(t *testing.T) {
	src := `<REUTERS NEWID="abc"><TEXT><TITLE>BAD ID</TITLE></TEXT></REUTERS>`
	_, err := parseRecords(strings.NewReader(src), "sample")
	require.ErrorContains(t, err, "bad NEWID")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reut2-000.sgm")
	require.NoError(t, os.WriteFile(path, []byte(sampleSGML), 0644))

	records, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.sgm"))
	require.Error(t, err)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"reut2-001.sgm", "reut2-000.sgm", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	files, err := ListFiles(dir, []string{"reut2-*.sgm"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "reut2-000.sgm"),
		filepath.Join(dir, "reut2-001.sgm"),
	}, files)

	all, err := ListFiles(dir, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = ListFiles(dir, []string{"[bad"})
	require.Error(t, err)
}
