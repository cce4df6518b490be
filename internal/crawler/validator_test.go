package crawler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phoneprice/internal/crawler"
	"phoneprice/internal/model"
	"phoneprice/internal/rules"
)

func rawWith(name, price string) model.RawRecord {
	r := model.NewRawRecord()
	r.Name = name
	r.Price = price
	return r
}

func TestValidator_Valid(t *testing.T) {
	v := crawler.NewValidator(rules.Default())

	tests := []struct {
		name string
		rec  model.RawRecord
		want bool
	}{
		{"branded product with price", rawWith("荣耀X50(12GB/256GB)", "¥1299"), true},
		{"navigation label", rawWith("手机排行榜 荣耀", "¥1299"), false},
		{"RAM filter label", rawWith("RAM 12GB 荣耀", "¥1299"), false},
		{"too short", rawWith("荣耀X5", "¥1299"), false},
		{"digits only", rawWith("123456", "¥1299"), false},
		{"nothing but a name", rawWith("荣耀X50 Pro 手机", model.UnknownPrice), false},
		{"brandless short name without price", func() model.RawRecord {
			r := rawWith("Nokia 3310", model.UnknownPrice)
			r.Rating = "8.0"
			r.Name = "Nokia 33"
			return r
		}(), false},
		{"brandless long name without price", func() model.RawRecord {
			r := rawWith("Nokia 3310 经典复刻版", model.UnknownPrice)
			r.Rating = "8.0"
			return r
		}(), true},
		{"brandless with price", rawWith("Nokia 3310", "¥299"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Valid(tt.rec))
		})
	}
}

func TestValidator_Clean(t *testing.T) {
	v := crawler.NewValidator(rules.Default())

	got := v.Clean(rawWith("  小米14   Pro ¥ 3999.00\n 徕卡影像 ", "¥3999"))
	assert.Equal(t, "小米14 Pro 徕卡影像", got.Name)
	assert.Equal(t, "¥3999", got.Price)
}
