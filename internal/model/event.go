package model

// 領域常數：原始設計只把這些寫成文件常數，這裡在建立時實際檢查
const (
	MinTicketPrice       uint64 = 1000
	MaxTotalTickets      uint64 = 10000
	MaxEventNameBytes           = 100
	MaxMetadataURIBytes         = 256
	InsurancePremiumRate uint64 = 5 // percent
)

// Event 活動模型：organizer、total_tickets、price 建立後不可變，
// tickets_sold 只增不減，is_canceled 只能 false -> true
type Event struct {
	ID           uint64   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Organizer    Identity `json:"organizer" db:"organizer"`
	TotalTickets uint64   `json:"total_tickets" db:"total_tickets"`
	TicketsSold  uint64   `json:"tickets_sold" db:"tickets_sold"`
	Price        uint64   `json:"price" db:"price"`
	Date         uint64   `json:"date" db:"date"`
	IsCanceled   bool     `json:"is_canceled" db:"is_canceled"`
	MetadataURI  string   `json:"metadata_uri" db:"metadata_uri"`
}

// IsSoldOut 檢查活動票券是否售罄
func (e *Event) IsSoldOut() bool {
	return e.TicketsSold >= e.TotalTickets
}

// Clone 回傳整筆記錄的副本，store 採 whole-record replace-on-write
func (e *Event) Clone() *Event {
	clone := *e
	return &clone
}

// CreateEventParams 建立活動參數
type CreateEventParams struct {
	Name         string
	TotalTickets uint64
	Price        uint64
	Date         uint64
	MetadataURI  string
}

// InsurancePremium 保險費：票價的 5%，整數除法向下取整
func InsurancePremium(price uint64) uint64 {
	return price * InsurancePremiumRate / 100
}
