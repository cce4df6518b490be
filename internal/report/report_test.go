package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"phoneprice/internal/model"
	"phoneprice/internal/report"
)

func TestPrint(t *testing.T) {
	recs := []model.NormalizedRecord{
		{Model: "荣耀X50(12GB/256GB)", Price: "1299.00"},
		{Model: "小米14 Pro(16GB+1TB)", Price: "5999"},
		{Model: "vivo X100", Price: "3999"},
		{Model: "OPPO Find X7", Price: "4299"},
		{Model: "华为Mate 60", Price: "5499"},
		{Model: "一加12", Price: "4199"},
	}

	var buf bytes.Buffer
	report.Print(&buf, recs, report.DefaultPreview)
	out := buf.String()

	assert.Contains(t, out, "荣耀X50(12GB/256GB)")
	assert.Contains(t, out, "¥1299.00")
	assert.Contains(t, out, "华为Mate 60")
	assert.NotContains(t, out, "一加12")
	assert.Contains(t, out, "6")
}

func TestPrint_FewerThanLimit(t *testing.T) {
	var buf bytes.Buffer
	report.Print(&buf, []model.NormalizedRecord{{Model: "vivo X100", Price: "3999"}}, report.DefaultPreview)

	assert.Contains(t, buf.String(), "vivo X100")
	assert.Contains(t, buf.String(), "¥3999")
}

func TestPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	report.Print(&buf, nil, report.DefaultPreview)

	assert.NotEmpty(t, buf.String())
}
