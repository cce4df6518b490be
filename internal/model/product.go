package model

// Sentinels used when a field could not be extracted from the page.
const (
	UnknownName        = "未知"
	UnknownPrice       = "未知价格"
	UnknownLink        = "#"
	UnknownDescription = "无"
	UnknownRating      = "暂无评分"
)

// Column headers of the raw product table.
const (
	ColName        = "手机名称"
	ColPrice       = "价格"
	ColLink        = "链接"
	ColDescription = "配置信息"
	ColRating      = "评分"
)

// RawColumns is the column order of the raw product table.
var RawColumns = []string{ColName, ColPrice, ColLink, ColDescription, ColRating}

// RawRecord is a product card scraped from a listing page, before normalization.
type RawRecord struct {
	Name        string
	Price       string
	Link        string
	Description string
	Rating      string
}

// NewRawRecord returns a record with every field at its sentinel.
func NewRawRecord() RawRecord {
	return RawRecord{
		Name:        UnknownName,
		Price:       UnknownPrice,
		Link:        UnknownLink,
		Description: UnknownDescription,
		Rating:      UnknownRating,
	}
}

// Row returns the record in RawColumns order.
func (r RawRecord) Row() []string {
	return []string{r.Name, r.Price, r.Link, r.Description, r.Rating}
}

// NormalizedRecord is the persisted (model, price) pair.
type NormalizedRecord struct {
	Model string `json:"手机型号"`
	Price string `json:"价格"`
}

// Key is the deduplication key of the record.
func (r NormalizedRecord) Key() string {
	return r.Model + "_" + r.Price
}
