package constants

// Common error messages
const (
	ErrInvalidJSON         = "invalid json or missing fields"
	ErrInvalidJSONPrefix   = "Invalid JSON: "
	ErrInvalidRequestBody  = "Invalid request body"
	ErrMethodNotAllowed    = "Method Not Allowed"
	ErrDatasetUnavailable  = "Dataset unavailable"
	ErrNoData              = "Nessun dato disponibile per il filtro selezionato."
	ErrExpensesUnavailable = "Nessuna spesa caricata"
	ErrExpenseColumns      = "Colonne fondamentali mancanti nelle spese"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
	DateTimeFormat = "2006-01-02 15:04:05"
	MonthFormat    = "2006-01"
)

// NotAvailable marks a ratio that could not be computed (zero denominator).
const NotAvailable = "n.d."
