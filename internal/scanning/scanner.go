package scanning

// ExtractionResult holds the fields extracted from a single receipt photo.
// Date and Time are kept as the strings the receipt shows (DD/MM/YYYY and
// HH:MM); they are not validated as calendar values. Amount is in centavos.
type ExtractionResult struct {
	Location    string `json:"local"`
	Date        string `json:"data"`
	AmountCents int    `json:"valor_centavos"`
	Time        string `json:"horario"`
}

// Scanner defines the interface for receipt field extraction
type Scanner interface {
	// ExtractReceipt analyzes a receipt image and extracts its fields
	ExtractReceipt(imageData []byte, contentType string) (*ExtractionResult, error)
	// Close closes the scanner and releases resources
	Close() error
}
