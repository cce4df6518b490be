package repository_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"phoneprice/internal/model"
	"phoneprice/internal/repository"
)

func sampleRaw() []model.RawRecord {
	return []model.RawRecord{
		{Name: "荣耀X50(12GB/256GB)", Price: "¥1299", Link: "https://detail.zol.com.cn/1.html", Description: "6.78英寸", Rating: "9.0"},
		{Name: "小米14 Pro, 徕卡", Price: "¥5999", Link: "#", Description: "无", Rating: "暂无评分"},
	}
}

func TestTableRepository_SaveAndRead(t *testing.T) {
	dir := t.TempDir()
	repo := repository.NewTableRepository(dir)
	repo.Now = func() time.Time { return fixedNow }

	csvPath, xlsxPath, err := repo.Save(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "phone_prices_20261017_090507.csv"), csvPath)
	assert.Equal(t, filepath.Join(dir, "phone_prices_20261017_090507.xlsx"), xlsxPath)

	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "\ufeff手机名称,价格,链接,配置信息,评分\n"))

	fromCSV, skipped, err := repository.ReadTable(csvPath)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, sampleRaw(), fromCSV)

	fromXLSX, _, err := repository.ReadTable(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, sampleRaw(), fromXLSX)
}

func TestReadTable_CSVColumnsByHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	content := "\ufeff序号,价格,手机名称\n1,¥1299,荣耀X50\n2,¥999\n3,\"bad \"quote\",vivo\n4,¥4999,vivo X100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	recs, skipped, err := repository.ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, recs, 3)

	assert.Equal(t, "荣耀X50", recs[0].Name)
	assert.Equal(t, "¥1299", recs[0].Price)
	assert.Equal(t, model.UnknownRating, recs[0].Rating)
	assert.Equal(t, "", recs[1].Name)
	assert.Equal(t, "vivo X100", recs[2].Name)
}

func TestReadTable_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("手机名称,评分\n荣耀X50,9\n"), 0o644))

	_, _, err := repository.ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "价格")
}

func TestReadTable_XLSXBuiltByHand(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range [][]string{{"价格", "手机名称"}, {"¥3999", "OPPO Find X7"}} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.SaveAs(path))

	recs, _, err := repository.ReadTable(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "OPPO Find X7", recs[0].Name)
	assert.Equal(t, "¥3999", recs[0].Price)
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, _, err := repository.ReadTable("data/prices.json")
	require.Error(t, err)
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"phone_prices_20250101_000000.csv",
		"phone_prices_20260101_000000.csv",
		"phone_prices_20270101_000000.json",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "phone_prices_20990101_000000.csv"), 0o755))

	got, err := repository.FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "phone_prices_20260101_000000.csv"), got)
}

func TestFindLatest_NoTables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phone_prices_20260101_000000.json"), nil, 0o644))

	_, err := repository.FindLatest(dir)
	require.ErrorIs(t, err, repository.ErrNoInputFile)
}

func TestFindLatest_MissingDir(t *testing.T) {
	_, err := repository.FindLatest(filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, repository.ErrNoInputFile)
}
