package models

// LineItem is one checklist entry of a work order.
type LineItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"orderId"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// PhotoUpload is a presigned slot for one inspection photo.
type PhotoUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
