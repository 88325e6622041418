package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type level string

type row struct {
	Name    string    `excel:"姓名"`
	Level   level     `excel:"等级"`
	Joined  time.Time `excel:"加入时间"`
	Skipped string    `excel:"-"`
	Count   int
	hidden  string
}

func TestWriteSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	joined := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := []row{
		{Name: "alice", Level: "LEADER", Joined: joined, Skipped: "x", Count: 3, hidden: "y"},
		{Name: "bob", Level: "MEMBER"},
	}
	require.NoError(t, WriteSheet(f, "成员", rows))

	got, err := f.GetRows("成员")
	require.NoError(t, err)
	require.Equal(t, []string{"姓名", "等级", "加入时间", "Count"}, got[0])
	require.Equal(t, []string{"alice", "LEADER", "2026-03-01 09:30", "3"}, got[1])
	// 零值时间写为空
	require.Equal(t, []string{"bob", "MEMBER", "", "0"}, got[2])
}

func TestWriteSheetEmpty(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, WriteSheet(f, "", []*row{}))
	got, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "姓名", got[0][0])
}

func TestWriteSheetRejectsNonStructSlice(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.Error(t, WriteSheet(f, "x", "not a slice"))
	require.Error(t, WriteSheet(f, "x", []int{1, 2}))
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir() + "/a/b"
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}
