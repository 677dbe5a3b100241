package dto

// ReceiptUploadURLRequest defines the data needed to request a presigned receipt upload.
type ReceiptUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ReceiptUploadURLResponse carries the presigned URL and the object path the
// client must echo back on the expense line.
type ReceiptUploadURLResponse struct {
	UploadURL string `json:"uploadURL"`
	Path      string `json:"path"`
	ExpiresIn int64  `json:"expiresIn"` // Seconds until the URL stops working
}

// ReceiptURLResponse maps an expense line to a viewable receipt URL.
// URL is nil when the line has no receipt attached.
type ReceiptURLResponse struct {
	ExpenseID string  `json:"expenseID"`
	URL       *string `json:"url"`
}
